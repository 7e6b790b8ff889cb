package leagues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

const (
	minTeams = 2
	maxTeams = 30
)

// ErrValidation marks a rejected league request.
var ErrValidation = errors.New("validation failed")

// LeaguesRepository defines what the app layer needs from the repository
type LeaguesRepository interface {
	CreateLeague(ctx context.Context, req repository.CreateLeagueRequest) (*models.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListLeagues(ctx context.Context) ([]models.League, error)
	UpdateLeague(ctx context.Context, id uuid.UUID, req repository.UpdateLeagueRequest) (*models.League, error)
	DeleteLeague(ctx context.Context, id uuid.UUID) error
}

// App handles leagues business logic
type App struct {
	repo LeaguesRepository
}

// NewApp creates a new leagues App
func NewApp(repo LeaguesRepository) *App {
	return &App{repo: repo}
}

// CreateLeague creates a new league with validation
func (a *App) CreateLeague(ctx context.Context, req repository.CreateLeagueRequest) (*models.League, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := a.validateLeagueRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	league, err := a.repo.CreateLeague(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("name", league.Name).
		Int("teams", league.NumberOfTeams).
		Msg("created league")
	return league, nil
}

// GetLeague retrieves a league by ID
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

func (a *App) ListLeagues(ctx context.Context) ([]models.League, error) {
	leagues, err := a.repo.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

// UpdateLeague replaces a league's settings. Existing drafts pick up the new
// requirements on their next read.
func (a *App) UpdateLeague(ctx context.Context, id uuid.UUID, req repository.UpdateLeagueRequest) (*models.League, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := a.validateLeagueRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	league, err := a.repo.UpdateLeague(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update league: %w", err)
	}

	log.Info().Str("league_id", id.String()).Str("name", league.Name).Msg("updated league")
	return league, nil
}

// DeleteLeague deletes a league and every draft under it
func (a *App) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteLeague(ctx, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	log.Info().Str("league_id", id.String()).Msg("deleted league")
	return nil
}

// SeedPresets creates every preset whose name is not already taken and
// returns how many were created.
func (a *App) SeedPresets(ctx context.Context, presets []Preset) (int, error) {
	existing, err := a.repo.ListLeagues(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list leagues: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, l := range existing {
		taken[strings.ToLower(l.Name)] = true
	}

	created := 0
	for _, p := range presets {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if taken[key] {
			continue
		}
		if _, err := a.CreateLeague(ctx, p.Request()); err != nil {
			return created, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		taken[key] = true
		created++
	}
	return created, nil
}

func (a *App) validateLeagueRequest(req repository.CreateLeagueRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.NumberOfTeams < minTeams || req.NumberOfTeams > maxTeams {
		return fmt.Errorf("number_of_teams must be between %d and %d", minTeams, maxTeams)
	}
	if req.RosterSize <= 0 {
		return fmt.Errorf("roster_size must be greater than 0")
	}
	return a.validateRequirements(req.PositionalRequirements)
}

func (a *App) validateRequirements(reqs []models.PositionalRequirement) error {
	seen := make(map[models.Position]bool, len(reqs))
	for _, r := range reqs {
		if !models.ValidPosition(r.Position) {
			return fmt.Errorf("invalid position: %s", r.Position)
		}
		if r.Required < 0 {
			return fmt.Errorf("required count for %s cannot be negative", r.Position)
		}
		if seen[r.Position] {
			return fmt.Errorf("position %s is listed more than once", r.Position)
		}
		seen[r.Position] = true
	}
	return nil
}

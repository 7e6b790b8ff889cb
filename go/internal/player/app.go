package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

// ErrValidation marks a rejected player request.
var ErrValidation = errors.New("validation failed")

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error)
	UpsertPlayers(ctx context.Context, reqs []repository.UpsertPlayerRequest) ([]models.Player, error)
	UpdatePlayerTier(ctx context.Context, id uuid.UUID, tier *int) (*models.Player, error)
}

// Filter narrows a player list. Zero values match everything.
type Filter struct {
	// Position keeps players eligible for the slot, so CI matches 1B and 3B.
	Position models.Position
	// Search is a case-insensitive substring of the player's name.
	Search string
	Limit  int
}

// App handles player business logic
type App struct {
	repo PlayerRepository
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository) *App {
	return &App{repo: repo}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// ListPlayers returns players by ADP, unranked last
func (a *App) ListPlayers(ctx context.Context, f Filter) ([]models.Player, error) {
	if err := a.validateFilter(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	players, err := a.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return applyFilter(players, f), nil
}

// ListAvailablePlayers returns the players not yet picked in a draft
func (a *App) ListAvailablePlayers(ctx context.Context, draftID uuid.UUID, f Filter) ([]models.Player, error) {
	if err := a.validateFilter(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	players, err := a.repo.ListAvailablePlayers(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	return applyFilter(players, f), nil
}

// UpsertPlayers creates or updates players in bulk, matching existing ones by
// name. The whole batch is rejected if any entry is invalid.
func (a *App) UpsertPlayers(ctx context.Context, reqs []repository.UpsertPlayerRequest) ([]models.Player, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no players given", ErrValidation)
	}
	for i := range reqs {
		reqs[i].Name = strings.TrimSpace(reqs[i].Name)
		if err := a.validateUpsert(reqs[i]); err != nil {
			return nil, fmt.Errorf("%w: player %d: %w", ErrValidation, i+1, err)
		}
	}

	players, err := a.repo.UpsertPlayers(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert players: %w", err)
	}

	log.Info().Int("players", len(players)).Msg("upserted players")
	return players, nil
}

// UpdatePlayerTier sets or clears (nil) a player's tier
func (a *App) UpdatePlayerTier(ctx context.Context, id uuid.UUID, tier *int) (*models.Player, error) {
	if tier != nil && *tier < 1 {
		return nil, fmt.Errorf("%w: tier must be at least 1", ErrValidation)
	}
	p, err := a.repo.UpdatePlayerTier(ctx, id, tier)
	if err != nil {
		return nil, fmt.Errorf("failed to update player tier: %w", err)
	}
	return p, nil
}

func applyFilter(players []models.Player, f Filter) []models.Player {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if f.Position != "" && !roster.Qualifies(p.Positions, f.Position) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (a *App) validateFilter(f Filter) error {
	if f.Position != "" && !models.ValidPosition(f.Position) {
		return fmt.Errorf("invalid position: %s", f.Position)
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	return nil
}

func (a *App) validateUpsert(req repository.UpsertPlayerRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	for _, pos := range req.Positions {
		if !models.ValidPosition(pos) {
			return fmt.Errorf("invalid position %s for %s", pos, req.Name)
		}
	}
	if req.ADP != nil && *req.ADP <= 0 {
		return fmt.Errorf("adp must be positive for %s", req.Name)
	}
	if req.Tier != nil && *req.Tier < 1 {
		return fmt.Errorf("tier must be at least 1 for %s", req.Name)
	}
	return nil
}

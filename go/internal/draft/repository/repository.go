package repository

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

type CreateLeagueRequest struct {
	Name                   string                         `json:"name"`
	NumberOfTeams          int                            `json:"number_of_teams"`
	RosterSize             int                            `json:"roster_size"`
	PositionalRequirements []models.PositionalRequirement `json:"positional_requirements"`
	ScoringCategories      *models.ScoringCategories      `json:"scoring_categories,omitempty"`
}

// UpdateLeagueRequest replaces every mutable league field.
type UpdateLeagueRequest = CreateLeagueRequest

type UpsertPlayerRequest struct {
	Name         string             `json:"name"`
	Positions    []models.Position  `json:"positions"`
	Team         string             `json:"team,omitempty"`
	ADP          *float64           `json:"adp"`
	Tier         *int               `json:"tier"`
	AuctionValue *float64           `json:"auction_value"`
	Stats        map[string]float64 `json:"stats,omitempty"`
}

type CreateDraftRequest struct {
	LeagueID   uuid.UUID          `json:"league_id"`
	Name       string             `json:"name"`
	Status     models.DraftStatus `json:"status"`
	DraftOrder []uuid.UUID        `json:"draft_order"`
}

// UpdateDraftRequest carries optional changes; nil fields are left untouched.
type UpdateDraftRequest struct {
	Name        *string             `json:"name,omitempty"`
	Status      *models.DraftStatus `json:"status,omitempty"`
	CurrentPick *int                `json:"current_pick,omitempty"`
	DraftOrder  []uuid.UUID         `json:"draft_order,omitempty"`
}

type CreateTeamRequest struct {
	DraftID    uuid.UUID `json:"draft_id"`
	Name       string    `json:"name"`
	IsUserTeam bool      `json:"is_user_team"`
}

// CreateDraftPickRequest records a pick and moves the draft's current_pick
// counter to PickNumber in the same write.
type CreateDraftPickRequest struct {
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	PickNumber int       `json:"pick_number"`
	Slot       int       `json:"slot"`
}

type CreateKeeperRequest struct {
	DraftID   uuid.UUID `json:"draft_id"`
	TeamID    uuid.UUID `json:"team_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	DraftSlot int       `json:"draft_slot"`
}

type DraftPlanInput struct {
	PickNumber      int              `json:"pick_number"`
	PlannedPosition *models.Position `json:"planned_position"`
	Notes           string           `json:"notes,omitempty"`
}

// playerKey is the identity used to match upserted players: the lower-cased,
// trimmed name.
func playerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sortPlayersByADP orders players by ADP ascending with unranked players last,
// then by name.
func sortPlayersByADP(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].ADP, players[j].ADP
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return players[i].Name < players[j].Name
	})
}

package draft

import (
	"github.com/google/uuid"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/pick"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

// CreateDraftRequest represents a request to create a new draft
type CreateDraftRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
	Name     string    `json:"name"`
}

// MakePickRequest records a player for a team. Slot is the roster slot the
// picker chose; zero means the next sequential slot for the team.
type MakePickRequest struct {
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Slot     int       `json:"slot"`
}

// CreateKeeperRequest assigns a player to a team ahead of the draft
type CreateKeeperRequest struct {
	DraftID   uuid.UUID `json:"draft_id"`
	TeamID    uuid.UUID `json:"team_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	DraftSlot int       `json:"draft_slot"`
}

// AutoPickResult is the outcome of an auto-drafted pick
type AutoPickResult struct {
	Pick   *models.DraftPick `json:"pick"`
	Player *models.Player    `json:"player"`
	Needs  roster.Needs      `json:"needs"` // needs before the pick
}

// ClockStatus describes who is picking next
type ClockStatus struct {
	DraftID        uuid.UUID    `json:"draft_id"`
	PickNumber     int          `json:"pick_number"`
	Round          int          `json:"round"`
	PickInRound    int          `json:"pick_in_round"`
	Team           *models.Team `json:"team"`
	UserOnClock    bool         `json:"user_on_clock"`
	PicksUntilUser *int         `json:"picks_until_user,omitempty"`
	PicksMade      int          `json:"picks_made"`
	TotalPicks     int          `json:"total_picks"`
	Complete       bool         `json:"complete"`
}

// RosterView is a team's drafted players plus what it still needs
type RosterView struct {
	Team    models.Team    `json:"team"`
	Entries []roster.Entry `json:"entries"`
	Needs   roster.Needs   `json:"needs"`
}

// BoardCell is one slot of the draft board, filled when a pick exists
type BoardCell struct {
	pick.Slot
	Pick   *models.DraftPick `json:"pick,omitempty"`
	Player *models.Player    `json:"player,omitempty"`
}

// Board is the full snake grid for a draft
type Board struct {
	DraftID uuid.UUID       `json:"draft_id"`
	Rounds  int             `json:"rounds"`
	Teams   []models.Team   `json:"teams"` // in draft order
	Cells   []BoardCell     `json:"cells"`
	Keepers []models.Keeper `json:"keepers"`
}

package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusSetup      DraftStatus = "setup"
	DraftStatusInProgress DraftStatus = "in_progress"
	DraftStatusCompleted  DraftStatus = "completed"
)

// Draft represents a mock draft instance.
// CurrentPick caches the number of recorded picks.
type Draft struct {
	ID          uuid.UUID   `json:"id"`
	LeagueID    uuid.UUID   `json:"league_id"`
	Name        string      `json:"name"`
	Status      DraftStatus `json:"status"`
	CurrentPick int         `json:"current_pick"`
	DraftOrder  []uuid.UUID `json:"draft_order"` // first-round order
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

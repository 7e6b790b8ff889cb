package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPlan is the user's intended position for an upcoming pick.
type DraftPlan struct {
	ID              uuid.UUID `json:"id"`
	DraftID         uuid.UUID `json:"draft_id"`
	PickNumber      int       `json:"pick_number"`
	PlannedPosition *Position `json:"planned_position"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

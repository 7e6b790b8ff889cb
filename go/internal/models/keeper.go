package models

import (
	"time"

	"github.com/google/uuid"
)

// Keeper is a player pre-assigned to a team before the draft begins.
type Keeper struct {
	ID        uuid.UUID `json:"id"`
	DraftID   uuid.UUID `json:"draft_id"`
	TeamID    uuid.UUID `json:"team_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	DraftSlot int       `json:"draft_slot"` // pick number the keeper occupies
	CreatedAt time.Time `json:"created_at"`
}

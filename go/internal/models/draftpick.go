package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftPick represents a single recorded pick in a draft.
type DraftPick struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	PickNumber int       `json:"pick_number"` // 1-based, overall
	Slot       int       `json:"slot"`        // roster slot chosen by the picker
	CreatedAt  time.Time `json:"created_at"`
}

// Round returns the 1-based board round of the pick for a league of numTeams.
func (p *DraftPick) Round(numTeams int) int {
	if numTeams <= 0 {
		return 0
	}
	return (p.PickNumber-1)/numTeams + 1
}

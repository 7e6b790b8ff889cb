package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a drafting team owned by a single draft. At most one team per
// draft is the human-controlled user team.
type Team struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	Name       string    `json:"name"`
	IsUserTeam bool      `json:"is_user_team"`
	CreatedAt  time.Time `json:"created_at"`
}

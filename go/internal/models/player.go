package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a draftable player. Ranking attributes are precomputed
// upstream and treated as opaque inputs.
type Player struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Positions    []Position         `json:"positions"`
	Team         string             `json:"team,omitempty"`
	ADP          *float64           `json:"adp"`           // nil = unranked
	Tier         *int               `json:"tier"`          // nil = untiered
	AuctionValue *float64           `json:"auction_value"` // optional
	Stats        map[string]float64 `json:"stats,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// HasPosition reports whether the player carries the given tag directly.
func (p *Player) HasPosition(pos Position) bool {
	for _, have := range p.Positions {
		if have == pos {
			return true
		}
	}
	return false
}

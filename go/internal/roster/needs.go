package roster

import (
	"github.com/google/uuid"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// PlayerLookup resolves a player by ID.
type PlayerLookup func(id uuid.UUID) (*models.Player, bool)

// Needs maps a required position to the number of players still needed there.
// Positions with no remaining need are absent.
type Needs map[models.Position]int

// Has reports whether pos still has a positive need.
func (n Needs) Has(pos models.Position) bool {
	return n[pos] > 0
}

// Total sums the remaining need across all positions.
func (n Needs) Total() int {
	total := 0
	for _, count := range n {
		if count > 0 {
			total += count
		}
	}
	return total
}

// SatisfiedBy reports whether a player holding positions would fill any
// outstanding need.
func (n Needs) SatisfiedBy(positions []models.Position) bool {
	for pos, count := range n {
		if count > 0 && Qualifies(positions, pos) {
			return true
		}
	}
	return false
}

// Qualifies reports whether a player holding the given primitive positions can
// fill target. BEN accepts anyone, CI accepts 1B or 3B and MI accepts 2B or SS.
// Everything else, UTIL included, needs a direct match.
func Qualifies(positions []models.Position, target models.Position) bool {
	if target == models.PositionBench {
		return true
	}
	for _, pos := range positions {
		if pos == target {
			return true
		}
		switch target {
		case models.PositionCornerInfield:
			if pos == models.PositionFirstBase || pos == models.PositionThirdBase {
				return true
			}
		case models.PositionMiddleInfield:
			if pos == models.PositionSecondBase || pos == models.PositionShortstop {
				return true
			}
		}
	}
	return false
}

// RemainingNeeds computes the outstanding need per required position for a
// team. Each picked player is credited against every required position it
// qualifies for, so a 1B counts toward 1B, CI and BEN at once. Picks whose
// player cannot be resolved are skipped.
func RemainingNeeds(reqs []models.PositionalRequirement, teamPicks []models.DraftPick, lookup PlayerLookup) Needs {
	filled := make(map[models.Position]int, len(reqs))
	for _, req := range reqs {
		filled[req.Position] = 0
	}

	for _, pick := range teamPicks {
		player, ok := lookup(pick.PlayerID)
		if !ok || player == nil {
			continue
		}
		for pos := range filled {
			if Qualifies(player.Positions, pos) {
				filled[pos]++
			}
		}
	}

	needs := make(Needs)
	for _, req := range reqs {
		remaining := req.Required - filled[req.Position]
		if remaining > 0 {
			needs[req.Position] = remaining
		}
	}
	return needs
}

// LookupFromSlice builds a PlayerLookup over an in-memory player list.
func LookupFromSlice(players []models.Player) PlayerLookup {
	index := make(map[uuid.UUID]*models.Player, len(players))
	for i := range players {
		index[players[i].ID] = &players[i]
	}
	return func(id uuid.UUID) (*models.Player, bool) {
		p, ok := index[id]
		return p, ok
	}
}

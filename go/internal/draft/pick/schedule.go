package pick

import "github.com/google/uuid"

// Slot is one position on a snake draft board.
type Slot struct {
	OverallPick int       `json:"overall_pick"`
	Round       int       `json:"round"`
	PickInRound int       `json:"pick_in_round"`
	TeamID      uuid.UUID `json:"team_id"`
}

// Schedule generates every slot of a snake draft with the given number of
// rounds. Even rounds (1-based) run in reverse order.
func Schedule(order []uuid.UUID, rounds int) []Slot {
	numTeams := len(order)
	if numTeams == 0 || rounds <= 0 {
		return nil
	}

	slots := make([]Slot, 0, rounds*numTeams)
	overallPick := 1

	for round := 1; round <= rounds; round++ {
		isReversed := round%2 == 0

		for pos := 0; pos < numTeams; pos++ {
			idx := pos
			if isReversed {
				idx = numTeams - 1 - pos
			}
			slots = append(slots, Slot{
				OverallPick: overallPick,
				Round:       round,
				PickInRound: pos + 1,
				TeamID:      order[idx],
			})
			overallPick++
		}
	}

	return slots
}

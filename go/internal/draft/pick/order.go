package pick

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidOrder is returned when a draft order cannot resolve a turn.
var ErrInvalidOrder = errors.New("invalid draft order")

// IndexOnClock returns the index into a snake draft order of the team making
// the next pick, given how many picks have already been made.
func IndexOnClock(numTeams, picksMade int) (int, error) {
	if numTeams <= 0 {
		return 0, fmt.Errorf("%w: draft order is empty", ErrInvalidOrder)
	}
	if picksMade < 0 {
		return 0, fmt.Errorf("%w: picks made cannot be negative (%d)", ErrInvalidOrder, picksMade)
	}

	pickNumber := picksMade + 1
	round := (pickNumber - 1) / numTeams
	position := (pickNumber - 1) % numTeams

	// Odd rounds (0-based) run in reverse
	if round%2 == 1 {
		return numTeams - 1 - position, nil
	}
	return position, nil
}

// TeamOnClock returns the team making the next pick.
func TeamOnClock(order []uuid.UUID, picksMade int) (uuid.UUID, error) {
	idx, err := IndexOnClock(len(order), picksMade)
	if err != nil {
		return uuid.Nil, err
	}
	return order[idx], nil
}

// PicksUntil returns how many picks remain before teamID is on the clock,
// measured as the forward cyclic distance within the order from the team
// currently on the clock. Zero means teamID is on the clock now.
func PicksUntil(order []uuid.UUID, picksMade int, teamID uuid.UUID) (int, error) {
	current, err := IndexOnClock(len(order), picksMade)
	if err != nil {
		return 0, err
	}

	target := -1
	for i, id := range order {
		if id == teamID {
			target = i
			break
		}
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: team %s is not in the draft order", ErrInvalidOrder, teamID)
	}

	n := len(order)
	return ((target-current)%n + n) % n, nil
}

// Round returns the 1-based round of an overall pick number.
func Round(pickNumber, numTeams int) int {
	if numTeams <= 0 || pickNumber <= 0 {
		return 0
	}
	return (pickNumber-1)/numTeams + 1
}

// PickInRound returns the 1-based position of an overall pick within its round.
func PickInRound(pickNumber, numTeams int) int {
	if numTeams <= 0 || pickNumber <= 0 {
		return 0
	}
	return (pickNumber-1)%numTeams + 1
}

// ValidateOrder checks that order is a permutation of teams: same length, no
// duplicates and no unknown IDs.
func ValidateOrder(order []uuid.UUID, teams []uuid.UUID) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: draft order is empty", ErrInvalidOrder)
	}
	if len(order) != len(teams) {
		return fmt.Errorf("%w: order has %d teams, draft has %d", ErrInvalidOrder, len(order), len(teams))
	}

	known := make(map[uuid.UUID]bool, len(teams))
	for _, id := range teams {
		known[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if !known[id] {
			return fmt.Errorf("%w: team %s does not belong to this draft", ErrInvalidOrder, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: team %s appears more than once", ErrInvalidOrder, id)
		}
		seen[id] = true
	}
	return nil
}

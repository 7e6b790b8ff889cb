package draft

import (
	"sort"

	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

// untiered is the tier assumed for players without one.
const untiered = 999

type AutoPickStrategy interface {
	// SelectBest picks one player from the pool. It returns false only when
	// the pool is empty.
	SelectBest(players []models.Player, needs roster.Needs) (*models.Player, bool)
}

// Rank returns a copy of players ordered for drafting: ADP ascending with
// unranked players after every ranked one, and unranked players ordered by
// tier. The sort is stable so equal players keep pool order.
func Rank(players []models.Player) []models.Player {
	ranked := append([]models.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.ADP != nil && b.ADP != nil:
			return *a.ADP < *b.ADP
		case a.ADP != nil:
			return true
		case b.ADP != nil:
			return false
		}
		return tierOf(a) < tierOf(b)
	})
	return ranked
}

func tierOf(p models.Player) int {
	if p.Tier == nil {
		return untiered
	}
	return *p.Tier
}

// NeedBasedStrategy takes the highest ranked player who fills any open need
// and falls back to the top ranked player when nobody does.
type NeedBasedStrategy struct{}

func (NeedBasedStrategy) SelectBest(players []models.Player, needs roster.Needs) (*models.Player, bool) {
	if len(players) == 0 {
		return nil, false
	}
	ranked := Rank(players)
	for i := range ranked {
		if needs.SatisfiedBy(ranked[i].Positions) {
			return &ranked[i], true
		}
	}
	return &ranked[0], true
}

// BestAvailableStrategy ignores needs and takes the top ranked player.
type BestAvailableStrategy struct{}

func (BestAvailableStrategy) SelectBest(players []models.Player, _ roster.Needs) (*models.Player, bool) {
	if len(players) == 0 {
		return nil, false
	}
	ranked := Rank(players)
	return &ranked[0], true
}

// ChoosePick computes a team's remaining needs and asks strategy for a player.
func ChoosePick(
	strategy AutoPickStrategy,
	reqs []models.PositionalRequirement,
	teamPicks []models.DraftPick,
	available []models.Player,
	lookup roster.PlayerLookup,
) (*models.Player, roster.Needs, error) {
	needs := roster.RemainingNeeds(reqs, teamPicks, lookup)
	choice, ok := strategy.SelectBest(available, needs)
	if !ok {
		return nil, needs, ErrEmptyPool
	}
	return choice, needs, nil
}

package roster

import (
	"sort"

	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// Entry is one drafted player on a team's roster. Player is nil when the pick
// references a player that no longer resolves.
type Entry struct {
	Pick   models.DraftPick `json:"pick"`
	Player *models.Player   `json:"player"`
}

// TeamRoster joins a team's picks with their players, ordered by pick number.
func TeamRoster(teamPicks []models.DraftPick, lookup PlayerLookup) []Entry {
	entries := make([]Entry, 0, len(teamPicks))
	for _, pick := range teamPicks {
		entry := Entry{Pick: pick}
		if p, ok := lookup(pick.PlayerID); ok {
			entry.Player = p
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Pick.PickNumber < entries[j].Pick.PickNumber
	})
	return entries
}

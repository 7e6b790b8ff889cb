package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_MatchesTeamOnClock(t *testing.T) {
	order := newOrder(5)

	slots := Schedule(order, 4)

	require.Len(t, slots, 20)
	for i, slot := range slots {
		team, err := TeamOnClock(order, i)
		require.NoError(t, err)
		assert.Equal(t, team, slot.TeamID, "overall pick %d", slot.OverallPick)
		assert.Equal(t, i+1, slot.OverallPick)
		assert.Equal(t, Round(slot.OverallPick, 5), slot.Round)
		assert.Equal(t, PickInRound(slot.OverallPick, 5), slot.PickInRound)
	}
}

func TestSchedule_Empty(t *testing.T) {
	assert.Nil(t, Schedule(nil, 3))
	assert.Nil(t, Schedule(newOrder(3), 0))
}

package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

func TestTeamRoster_OrdersByPickNumber(t *testing.T) {
	a := newPlayer(models.PositionCatcher)
	b := newPlayer(models.PositionOutfield)
	missing := uuid.New()
	picks := []models.DraftPick{
		{PlayerID: b.ID, PickNumber: 24},
		{PlayerID: missing, PickNumber: 30},
		{PlayerID: a.ID, PickNumber: 1},
	}

	entries := TeamRoster(picks, LookupFromSlice([]models.Player{a, b}))

	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Pick.PickNumber)
	assert.Equal(t, a.ID, entries[0].Player.ID)
	assert.Equal(t, b.ID, entries[1].Player.ID)
	assert.Nil(t, entries[2].Player)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeagueTotalPicks(t *testing.T) {
	l := League{NumberOfTeams: 12, RosterSize: 23}
	assert.Equal(t, 276, l.TotalPicks())
}

func TestDraftPickRound(t *testing.T) {
	tests := []struct {
		pick     int
		numTeams int
		want     int
	}{
		{pick: 1, numTeams: 12, want: 1},
		{pick: 12, numTeams: 12, want: 1},
		{pick: 13, numTeams: 12, want: 2},
		{pick: 25, numTeams: 12, want: 3},
		{pick: 5, numTeams: 0, want: 0},
	}
	for _, tt := range tests {
		p := DraftPick{PickNumber: tt.pick}
		assert.Equal(t, tt.want, p.Round(tt.numTeams), "pick %d", tt.pick)
	}
}

func TestValidPosition(t *testing.T) {
	assert.True(t, ValidPosition(PositionCornerInfield))
	assert.True(t, ValidPosition("BEN"))
	assert.False(t, ValidPosition("DH"))
	assert.False(t, ValidPosition(""))
}

func TestPlayerHasPosition(t *testing.T) {
	p := Player{Positions: []Position{PositionFirstBase, PositionOutfield}}
	assert.True(t, p.HasPosition(PositionOutfield))
	assert.False(t, p.HasPosition(PositionCornerInfield))
}

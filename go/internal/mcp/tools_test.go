package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

type testDraft struct {
	handler *DraftHandler
	draftID uuid.UUID
	teams   []models.Team
	players []models.Player
}

// newTestDraft builds a 2-team, 2-round draft with the user picking first.
func newTestDraft(t *testing.T) *testDraft {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	drafts := draft.NewApp(store, store, store)
	players := player.NewApp(store)

	positions := []models.Position{
		models.PositionFirstBase, models.PositionCatcher, models.PositionShortstop, models.PositionOutfield,
	}
	reqs := make([]repository.UpsertPlayerRequest, len(positions))
	for i, pos := range positions {
		adp := float64(i + 1)
		reqs[i] = repository.UpsertPlayerRequest{Name: fmt.Sprintf("Player %d", i+1), Positions: []models.Position{pos}, ADP: &adp}
	}
	created, err := players.UpsertPlayers(ctx, reqs)
	require.NoError(t, err)

	league, err := store.CreateLeague(ctx, repository.CreateLeagueRequest{
		Name: "L", NumberOfTeams: 2, RosterSize: 2,
		PositionalRequirements: []models.PositionalRequirement{{Position: models.PositionCatcher, Required: 1}},
	})
	require.NoError(t, err)
	d, err := drafts.CreateDraft(ctx, draft.CreateDraftRequest{LeagueID: league.ID, Name: "Mock"})
	require.NoError(t, err)
	user, err := drafts.CreateTeam(ctx, d.ID, "Mine", true)
	require.NoError(t, err)
	cpu, err := drafts.CreateTeam(ctx, d.ID, "CPU", false)
	require.NoError(t, err)
	_, err = drafts.SetDraftOrder(ctx, d.ID, []uuid.UUID{user.ID, cpu.ID})
	require.NoError(t, err)

	return &testDraft{
		handler: NewDraftHandler(drafts, players),
		draftID: d.ID,
		teams:   []models.Team{*user, *cpu},
		players: created,
	}
}

func (td *testDraft) call(t *testing.T, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]interface{}{}
	}
	if _, ok := args["draft_id"]; !ok {
		args["draft_id"] = td.draftID.String()
	}
	res, err := td.handler.Call(context.Background(), name, args)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var v T
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &v))
	return v
}

func TestDraftHandler_Tools(t *testing.T) {
	h := NewDraftHandler(nil, nil)
	names := make([]string, 0)
	for _, tool := range h.Tools() {
		names = append(names, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type)
		assert.Contains(t, tool.InputSchema.Properties, "draft_id")
		assert.NotEmpty(t, tool.Description)
	}
	for _, want := range []string{"team_on_clock", "remaining_needs", "suggest_pick", "make_pick", "auto_pick", "reset_draft"} {
		assert.Contains(t, names, want)
	}
}

func TestDraftHandler_TeamOnClock(t *testing.T) {
	td := newTestDraft(t)

	clock := decodeResult[draft.ClockStatus](t, td.call(t, "team_on_clock", nil))
	assert.Equal(t, 1, clock.PickNumber)
	assert.True(t, clock.UserOnClock)
	require.NotNil(t, clock.Team)
	assert.Equal(t, "Mine", clock.Team.Name)
}

func TestDraftHandler_PickFlow(t *testing.T) {
	td := newTestDraft(t)
	user, cpu := td.teams[0], td.teams[1]

	needs := decodeResult[needsResult](t, td.call(t, "remaining_needs", map[string]interface{}{"team_id": user.ID.String()}))
	assert.Equal(t, 1, needs.Needs[models.PositionCatcher])
	assert.Equal(t, 1, needs.Total)

	suggestion := decodeResult[suggestionResult](t, td.call(t, "suggest_pick", map[string]interface{}{"team_id": user.ID.String()}))
	require.NotNil(t, suggestion.Player)
	assert.Equal(t, td.players[1].ID, suggestion.Player.ID, "catcher need beats the higher ranked first baseman")

	pk := decodeResult[models.DraftPick](t, td.call(t, "make_pick", map[string]interface{}{
		"team_id":   user.ID.String(),
		"player_id": td.players[1].ID.String(),
	}))
	assert.Equal(t, 1, pk.PickNumber)

	res := td.call(t, "make_pick", map[string]interface{}{
		"team_id":   cpu.ID.String(),
		"player_id": td.players[1].ID.String(),
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), draft.ErrPlayerAlreadyDrafted.Error())

	auto := decodeResult[draft.AutoPickResult](t, td.call(t, "auto_pick", nil))
	assert.Equal(t, cpu.ID, auto.Pick.TeamID, "defaults to the team on the clock")
	assert.Equal(t, 2, auto.Pick.PickNumber)

	advanced := decodeResult[[]draft.AutoPickResult](t, td.call(t, "advance_to_user", nil))
	require.Len(t, advanced, 1)
	assert.Equal(t, 3, advanced[0].Pick.PickNumber)

	available := decodeResult[[]models.Player](t, td.call(t, "available_players", map[string]interface{}{"limit": float64(10)}))
	assert.Len(t, available, 1)

	reset := decodeResult[resetResult](t, td.call(t, "reset_draft", nil))
	assert.Equal(t, 3, reset.PicksDeleted)
}

func TestDraftHandler_Errors(t *testing.T) {
	td := newTestDraft(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		contains string
	}{
		{"unknown tool", "trade_players", nil, "Unknown tool"},
		{"missing team", "remaining_needs", nil, "team_id is required"},
		{"bad draft id", "team_on_clock", map[string]interface{}{"draft_id": "nope"}, "draft_id is not a valid ID"},
		{"unknown draft", "team_on_clock", map[string]interface{}{"draft_id": uuid.NewString()}, "not found"},
		{"fractional slot", "make_pick", map[string]interface{}{
			"team_id": td.teams[0].ID.String(), "player_id": td.players[0].ID.String(), "slot": 1.5,
		}, "slot must be an integer"},
		{"bad position", "available_players", map[string]interface{}{"position": "DH"}, "invalid position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := td.call(t, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.contains)
		})
	}
}

package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingPublisher) ofType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx     context.Context
	store   *repository.MemoryStore
	app     *App
	pub     *recordingPublisher
	clock   *clockwork.FakeClock
	league  *models.League
	draft   *models.Draft
	teams   []models.Team // in draft order
	players []models.Player
}

type fixtureConfig struct {
	numTeams   int
	rosterSize int
	userIndex  int // -1 for no user team
	reqs       []models.PositionalRequirement
	players    []repository.UpsertPlayerRequest
	opts       []Option
}

func defaultPlayers(n int) []repository.UpsertPlayerRequest {
	positions := []models.Position{
		models.PositionCatcher, models.PositionFirstBase, models.PositionSecondBase,
		models.PositionShortstop, models.PositionThirdBase, models.PositionOutfield,
		models.PositionStarter, models.PositionReliever,
	}
	reqs := make([]repository.UpsertPlayerRequest, n)
	for i := range reqs {
		rank := float64(i + 1)
		reqs[i] = repository.UpsertPlayerRequest{
			Name:      fmt.Sprintf("Player %02d", i+1),
			Positions: []models.Position{positions[i%len(positions)]},
			ADP:       &rank,
		}
	}
	return reqs
}

func newFixture(t *testing.T, cfg fixtureConfig) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := repository.NewMemoryStoreWithClock(clock)
	pub := &recordingPublisher{}

	opts := append([]Option{WithClock(clock), WithPublisher(pub)}, cfg.opts...)
	app := NewApp(store, store, store, opts...)

	league, err := store.CreateLeague(ctx, repository.CreateLeagueRequest{
		Name:                   "Test League",
		NumberOfTeams:          cfg.numTeams,
		RosterSize:             cfg.rosterSize,
		PositionalRequirements: cfg.reqs,
	})
	require.NoError(t, err)

	d, err := app.CreateDraft(ctx, CreateDraftRequest{LeagueID: league.ID, Name: "Mock"})
	require.NoError(t, err)

	var teams []models.Team
	order := make([]uuid.UUID, 0, cfg.numTeams)
	for i := 0; i < cfg.numTeams; i++ {
		team, err := app.CreateTeam(ctx, d.ID, fmt.Sprintf("Team %d", i+1), i == cfg.userIndex)
		require.NoError(t, err)
		teams = append(teams, *team)
		order = append(order, team.ID)
	}
	d, err = app.SetDraftOrder(ctx, d.ID, order)
	require.NoError(t, err)

	playerReqs := cfg.players
	if playerReqs == nil {
		playerReqs = defaultPlayers(cfg.numTeams*cfg.rosterSize + 4)
	}
	players, err := store.UpsertPlayers(ctx, playerReqs)
	require.NoError(t, err)

	return &fixture{
		ctx:     ctx,
		store:   store,
		app:     app,
		pub:     pub,
		clock:   clock,
		league:  league,
		draft:   d,
		teams:   teams,
		players: players,
	}
}

func (f *fixture) pick(t *testing.T, teamIdx, playerIdx int) *models.DraftPick {
	t.Helper()
	p, err := f.app.MakePick(f.ctx, MakePickRequest{
		DraftID:  f.draft.ID,
		TeamID:   f.teams[teamIdx].ID,
		PlayerID: f.players[playerIdx].ID,
	})
	require.NoError(t, err)
	return p
}

func TestApp_CreateDraft(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	assert.Equal(t, models.DraftStatusSetup, f.draft.Status)
	assert.Equal(t, 0, f.draft.CurrentPick)

	_, err := f.app.CreateDraft(f.ctx, CreateDraftRequest{LeagueID: f.league.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.CreateDraft(f.ctx, CreateDraftRequest{LeagueID: uuid.New(), Name: "Orphan"})
	assert.ErrorIs(t, err, ErrNotFound)

	drafts, err := f.app.ListDrafts(f.ctx, f.league.ID)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestApp_CreateTeam(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	_, err := f.app.CreateTeam(f.ctx, f.draft.ID, "  ", false)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.CreateTeam(f.ctx, f.draft.ID, "Second User", true)
	assert.ErrorIs(t, err, ErrConflict)

	f.pick(t, 0, 0)
	_, err = f.app.CreateTeam(f.ctx, f.draft.ID, "Latecomer", false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApp_MakePick(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 0})

	first := f.pick(t, 0, 0)
	assert.Equal(t, 1, first.PickNumber)
	assert.Equal(t, 1, first.Slot)

	second := f.pick(t, 1, 1)
	assert.Equal(t, 2, second.PickNumber)

	d, err := f.app.GetDraft(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CurrentPick)
	assert.Equal(t, models.DraftStatusInProgress, d.Status)

	available, err := f.store.ListAvailablePlayers(f.ctx, f.draft.ID)
	require.NoError(t, err)
	for _, p := range available {
		assert.NotEqual(t, f.players[0].ID, p.ID)
		assert.NotEqual(t, f.players[1].ID, p.ID)
	}

	made := f.pub.ofType(events.TypePickMade)
	require.Len(t, made, 2)
	var payload events.PickMadePayload
	require.NoError(t, made[0].Decode(&payload))
	assert.Equal(t, f.players[0].Name, payload.PlayerName)
	assert.Equal(t, 1, payload.OverallPick)
	assert.Equal(t, 1, payload.Round)
	assert.False(t, payload.AutoPick)

	changed := f.pub.ofType(events.TypeDraftStatusChanged)
	require.Len(t, changed, 1)
}

func TestApp_MakePick_RejectsDuplicatePlayer(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})
	f.pick(t, 0, 0)

	_, err := f.app.MakePick(f.ctx, MakePickRequest{
		DraftID:  f.draft.ID,
		TeamID:   f.teams[1].ID,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, ErrPlayerAlreadyDrafted)

	picks, err := f.app.ListPicks(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Len(t, picks, 1)
}

func TestApp_MakePick_MissingRecords(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})
	other := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	tests := []struct {
		name string
		req  MakePickRequest
	}{
		{"missing draft", MakePickRequest{DraftID: uuid.New(), TeamID: f.teams[0].ID, PlayerID: f.players[0].ID}},
		{"missing team", MakePickRequest{DraftID: f.draft.ID, TeamID: uuid.New(), PlayerID: f.players[0].ID}},
		{"missing player", MakePickRequest{DraftID: f.draft.ID, TeamID: f.teams[0].ID, PlayerID: uuid.New()}},
		{"team from another draft", MakePickRequest{DraftID: f.draft.ID, TeamID: other.teams[0].ID, PlayerID: f.players[0].ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.MakePick(f.ctx, tt.req)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestApp_MakePick_OutOfTurnIsAllowedByDefault(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 0})

	// team 3 is not on the clock for pick 1
	p := f.pick(t, 2, 0)
	assert.Equal(t, 1, p.PickNumber)
	assert.Equal(t, f.teams[2].ID, p.TeamID)
}

func TestApp_MakePick_TurnEnforcement(t *testing.T) {
	f := newFixture(t, fixtureConfig{
		numTeams: 3, rosterSize: 2, userIndex: 0,
		opts: []Option{WithTurnEnforcement(true)},
	})

	_, err := f.app.MakePick(f.ctx, MakePickRequest{
		DraftID:  f.draft.ID,
		TeamID:   f.teams[1].ID,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, ErrNotOnClock)

	p := f.pick(t, 0, 0)
	assert.Equal(t, 1, p.PickNumber)
}

func TestApp_MakePick_CompletesDraft(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 1, userIndex: -1})

	f.pick(t, 0, 0)
	f.pick(t, 1, 1)

	d, err := f.app.GetDraft(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCompleted, d.Status)

	_, err = f.app.MakePick(f.ctx, MakePickRequest{
		DraftID:  f.draft.ID,
		TeamID:   f.teams[0].ID,
		PlayerID: f.players[2].ID,
	})
	assert.ErrorIs(t, err, ErrDraftCompleted)
}

func TestApp_MakePick_ConcurrentCallsGetDistinctNumbers(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 4, rosterSize: 3, userIndex: 0})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.app.MakePick(f.ctx, MakePickRequest{
				DraftID:  f.draft.ID,
				TeamID:   f.teams[i%4].ID,
				PlayerID: f.players[i].ID,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	picks, err := f.app.ListPicks(f.ctx, f.draft.ID)
	require.NoError(t, err)
	require.Len(t, picks, 8)
	for i, p := range picks {
		assert.Equal(t, i+1, p.PickNumber)
	}
}

func TestApp_AutoDraftPick_PrefersNeed(t *testing.T) {
	f := newFixture(t, fixtureConfig{
		numTeams: 2, rosterSize: 2, userIndex: 0,
		reqs: []models.PositionalRequirement{{Position: models.PositionCatcher, Required: 1}},
		players: []repository.UpsertPlayerRequest{
			{Name: "A", Positions: []models.Position{models.PositionOutfield}, ADP: adp(5)},
			{Name: "B", Positions: []models.Position{models.PositionCatcher}, ADP: adp(10)},
		},
	})

	res, err := f.app.AutoDraftPick(f.ctx, f.draft.ID, f.teams[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "B", res.Player.Name)
	assert.Equal(t, 1, res.Pick.PickNumber)
	assert.Equal(t, 1, res.Pick.Slot)
	assert.Equal(t, 1, res.Needs[models.PositionCatcher])

	made := f.pub.ofType(events.TypePickMade)
	require.Len(t, made, 1)
	var payload events.PickMadePayload
	require.NoError(t, made[0].Decode(&payload))
	assert.True(t, payload.AutoPick)
}

func TestApp_AutoDraftPick_SlotFollowsTeamPicks(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 3, userIndex: 0})

	f.pick(t, 0, 0)
	f.pick(t, 1, 1)
	res, err := f.app.AutoDraftPick(f.ctx, f.draft.ID, f.teams[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pick.PickNumber)
	assert.Equal(t, 2, res.Pick.Slot)
}

func TestApp_AutoDraftPick_EmptyPool(t *testing.T) {
	f := newFixture(t, fixtureConfig{
		numTeams: 2, rosterSize: 2, userIndex: 0,
		players: []repository.UpsertPlayerRequest{
			{Name: "Only", Positions: []models.Position{models.PositionOutfield}},
		},
	})
	f.pick(t, 0, 0)

	_, err := f.app.AutoDraftPick(f.ctx, f.draft.ID, f.teams[1].ID)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestApp_SuggestPick_DoesNotRecord(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	choice, _, err := f.app.SuggestPick(f.ctx, f.draft.ID, f.teams[0].ID)
	require.NoError(t, err)
	assert.Equal(t, f.players[0].ID, choice.ID)

	picks, err := f.app.ListPicks(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestApp_ResetDraft(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 1})
	_, err := f.app.CreateKeeper(f.ctx, CreateKeeperRequest{
		DraftID: f.draft.ID, TeamID: f.teams[2].ID, PlayerID: f.players[7].ID, DraftSlot: 4,
	})
	require.NoError(t, err)
	catcher := models.PositionCatcher
	_, err = f.app.SaveDraftPlans(f.ctx, f.draft.ID, []repository.DraftPlanInput{{PickNumber: 2, PlannedPosition: &catcher}})
	require.NoError(t, err)

	f.pick(t, 0, 0)
	f.pick(t, 1, 1)
	f.pick(t, 2, 2)

	deleted, err := f.app.ResetDraft(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	d, err := f.app.GetDraft(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusSetup, d.Status)
	assert.Equal(t, 0, d.CurrentPick)
	assert.Equal(t, f.draft.DraftOrder, d.DraftOrder)

	picks, err := f.app.ListPicks(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Empty(t, picks)

	teams, err := f.app.ListTeams(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, f.teams, teams)

	keepers, err := f.app.ListKeepers(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Len(t, keepers, 1)

	plans, err := f.app.ListPlans(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	assert.Len(t, f.pub.ofType(events.TypeDraftReset), 1)

	_, err = f.app.ResetDraft(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApp_DuplicateDraft(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 4, rosterSize: 2, userIndex: 2})

	// reverse the default order so positional mapping is exercised
	order := []uuid.UUID{f.teams[3].ID, f.teams[2].ID, f.teams[1].ID, f.teams[0].ID}
	_, err := f.app.SetDraftOrder(f.ctx, f.draft.ID, order)
	require.NoError(t, err)
	_, err = f.app.CreateKeeper(f.ctx, CreateKeeperRequest{
		DraftID: f.draft.ID, TeamID: f.teams[1].ID, PlayerID: f.players[5].ID, DraftSlot: 7,
	})
	require.NoError(t, err)
	f.pick(t, 3, 0)

	dup, err := f.app.DuplicateDraft(f.ctx, f.draft.ID, "Copy of Mock")
	require.NoError(t, err)
	assert.NotEqual(t, f.draft.ID, dup.ID)
	assert.Equal(t, "Copy of Mock", dup.Name)
	assert.Equal(t, models.DraftStatusSetup, dup.Status)
	assert.Equal(t, 0, dup.CurrentPick)
	assert.Equal(t, f.league.ID, dup.LeagueID)

	newTeams, err := f.app.ListTeams(f.ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, newTeams, len(f.teams))

	newByName := make(map[string]models.Team, len(newTeams))
	newIDs := make(map[uuid.UUID]bool, len(newTeams))
	for _, nt := range newTeams {
		newByName[nt.Name] = nt
		newIDs[nt.ID] = true
	}
	oldByID := make(map[uuid.UUID]models.Team, len(f.teams))
	for _, ot := range f.teams {
		oldByID[ot.ID] = ot
		assert.Equal(t, ot.IsUserTeam, newByName[ot.Name].IsUserTeam)
	}

	require.Len(t, dup.DraftOrder, len(order))
	for i, oldID := range order {
		assert.Equal(t, newByName[oldByID[oldID].Name].ID, dup.DraftOrder[i])
	}

	keepers, err := f.app.ListKeepers(f.ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, keepers, 1)
	assert.True(t, newIDs[keepers[0].TeamID])
	assert.Equal(t, 7, keepers[0].DraftSlot)
	assert.Equal(t, f.players[5].ID, keepers[0].PlayerID)

	picks, err := f.app.ListPicks(f.ctx, dup.ID)
	require.NoError(t, err)
	assert.Empty(t, picks)

	assert.Len(t, f.pub.ofType(events.TypeDraftDuplicated), 1)
}

func TestApp_DuplicateDraft_DefaultName(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})
	dup, err := f.app.DuplicateDraft(f.ctx, f.draft.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Mock (Copy)", dup.Name)

	_, err = f.app.DuplicateDraft(f.ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

// failingTeamStore fails team creation after a number of successes.
type failingTeamStore struct {
	*repository.MemoryStore
	allowed int
}

func (s *failingTeamStore) CreateTeam(ctx context.Context, req repository.CreateTeamRequest) (*models.Team, error) {
	if s.allowed == 0 {
		return nil, errors.New("disk full")
	}
	s.allowed--
	return s.MemoryStore.CreateTeam(ctx, req)
}

func TestApp_DuplicateDraft_StopsOnTeamCloneFailure(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 0})
	failing := &failingTeamStore{MemoryStore: f.store, allowed: 1}
	app := NewApp(failing, f.store, f.store)

	_, err := app.DuplicateDraft(f.ctx, f.draft.ID, "Broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamIO)

	drafts, err := app.ListDrafts(f.ctx, f.league.ID)
	require.NoError(t, err)
	assert.Len(t, drafts, 1, "partial copy must be removed")
}

type brokenDraftStore struct {
	*repository.MemoryStore
}

func (brokenDraftStore) GetDraft(context.Context, uuid.UUID) (*models.Draft, error) {
	return nil, errors.New("connection reset")
}

func TestApp_StorageFailuresAreUpstreamIO(t *testing.T) {
	store := repository.NewMemoryStore()
	app := NewApp(brokenDraftStore{store}, store, store)

	_, err := app.GetDraft(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUpstreamIO)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestApp_UpdateDraftStatus(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	d, err := f.app.UpdateDraftStatus(f.ctx, f.draft.ID, models.DraftStatusSetup)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusSetup, d.Status)
	assert.Empty(t, f.pub.ofType(events.TypeDraftStatusChanged))

	_, err = f.app.UpdateDraftStatus(f.ctx, f.draft.ID, models.DraftStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.app.UpdateDraftStatus(f.ctx, f.draft.ID, "paused")
	assert.ErrorIs(t, err, ErrValidation)

	d, err = f.app.UpdateDraftStatus(f.ctx, f.draft.ID, models.DraftStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusInProgress, d.Status)

	_, err = f.app.UpdateDraftStatus(f.ctx, f.draft.ID, models.DraftStatusSetup)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	d, err = f.app.UpdateDraftStatus(f.ctx, f.draft.ID, models.DraftStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCompleted, d.Status)
}

func TestApp_SetDraftOrder(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 0})

	_, err := f.app.SetDraftOrder(f.ctx, f.draft.ID, []uuid.UUID{f.teams[0].ID, f.teams[0].ID, f.teams[1].ID})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = f.app.SetDraftOrder(f.ctx, f.draft.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	f.pick(t, 0, 0)
	_, err = f.app.SetDraftOrder(f.ctx, f.draft.ID, f.draft.DraftOrder)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApp_TeamOnClock_Snake(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 3, userIndex: 2})

	// 1,2,3 then 3,2,1
	expected := []int{0, 1, 2, 2, 1, 0}
	for i, teamIdx := range expected {
		status, err := f.app.TeamOnClock(f.ctx, f.draft.ID)
		require.NoError(t, err)
		require.NotNil(t, status.Team)
		assert.Equal(t, f.teams[teamIdx].ID, status.Team.ID, "pick %d", i+1)
		assert.Equal(t, i+1, status.PickNumber)
		assert.Equal(t, teamIdx == 2, status.UserOnClock)
		f.pick(t, teamIdx, i)
	}

	status, err := f.app.TeamOnClock(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Round)
	assert.Equal(t, 9, status.TotalPicks)
}

func TestApp_TeamOnClock_EmptyOrder(t *testing.T) {
	store := repository.NewMemoryStore()
	app := NewApp(store, store, store)
	ctx := context.Background()

	league, err := store.CreateLeague(ctx, repository.CreateLeagueRequest{Name: "L", NumberOfTeams: 2, RosterSize: 2})
	require.NoError(t, err)
	d, err := app.CreateDraft(ctx, CreateDraftRequest{LeagueID: league.ID, Name: "No order"})
	require.NoError(t, err)

	_, err = app.TeamOnClock(ctx, d.ID)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestApp_PicksUntilUserTurn(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 4, rosterSize: 2, userIndex: 2})

	n, err := f.app.PicksUntilUserTurn(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f.pick(t, 0, 0)
	f.pick(t, 1, 1)
	n, err = f.app.PicksUntilUserTurn(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	noUser := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: -1})
	_, err = noUser.app.PicksUntilUserTurn(noUser.ctx, noUser.draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApp_TeamRoster(t *testing.T) {
	f := newFixture(t, fixtureConfig{
		numTeams: 12, rosterSize: 4, userIndex: 0,
		reqs: []models.PositionalRequirement{
			{Position: models.PositionCatcher, Required: 1},
			{Position: models.PositionOutfield, Required: 3},
		},
	})

	// defaultPlayers gives player 0 the catcher tag
	f.pick(t, 0, 0)

	view, err := f.app.TeamRoster(f.ctx, f.draft.ID, f.teams[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, f.players[0].ID, view.Entries[0].Player.ID)
	assert.Equal(t, 3, view.Needs[models.PositionOutfield])
	_, hasCatcher := view.Needs[models.PositionCatcher]
	assert.False(t, hasCatcher)
}

func TestApp_Board(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 3, rosterSize: 2, userIndex: 0})
	f.pick(t, 0, 0)
	f.pick(t, 1, 1)

	board, err := f.app.Board(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, board.Rounds)
	require.Len(t, board.Cells, 6)
	require.Len(t, board.Teams, 3)

	require.NotNil(t, board.Cells[0].Pick)
	assert.Equal(t, f.players[0].ID, board.Cells[0].Player.ID)
	require.NotNil(t, board.Cells[1].Pick)
	assert.Nil(t, board.Cells[2].Pick)

	// round 2 runs in reverse
	assert.Equal(t, f.teams[2].ID, board.Cells[3].TeamID)
	assert.Equal(t, f.teams[0].ID, board.Cells[5].TeamID)
}

func TestApp_Keepers(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 2, userIndex: 0})

	_, err := f.app.CreateKeeper(f.ctx, CreateKeeperRequest{
		DraftID: f.draft.ID, TeamID: f.teams[0].ID, PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, ErrValidation)

	k, err := f.app.CreateKeeper(f.ctx, CreateKeeperRequest{
		DraftID: f.draft.ID, TeamID: f.teams[0].ID, PlayerID: f.players[0].ID, DraftSlot: 1,
	})
	require.NoError(t, err)

	// keepers stay in the available pool
	available, err := f.store.ListAvailablePlayers(f.ctx, f.draft.ID)
	require.NoError(t, err)
	assert.Len(t, available, len(f.players))

	require.NoError(t, f.app.DeleteKeeper(f.ctx, k.ID))
	assert.ErrorIs(t, f.app.DeleteKeeper(f.ctx, k.ID), ErrNotFound)
}

func TestApp_Plans(t *testing.T) {
	f := newFixture(t, fixtureConfig{numTeams: 2, rosterSize: 3, userIndex: 0})
	of := models.PositionOutfield
	bad := models.Position("DH")

	_, err := f.app.SaveDraftPlans(f.ctx, f.draft.ID, []repository.DraftPlanInput{{PickNumber: 1, PlannedPosition: &bad}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.app.SaveDraftPlans(f.ctx, f.draft.ID, []repository.DraftPlanInput{{PickNumber: 1}, {PickNumber: 1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.SaveDraftPlans(f.ctx, f.draft.ID, []repository.DraftPlanInput{
		{PickNumber: 1, PlannedPosition: &of},
		{PickNumber: 4},
		{PickNumber: 5, Notes: "closer"},
	})
	require.NoError(t, err)

	f.pick(t, 0, 0)
	upcoming, err := f.app.UpcomingPlans(f.ctx, f.draft.ID, 1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, 4, upcoming[0].PickNumber)

	upcoming, err = f.app.UpcomingPlans(f.ctx, f.draft.ID, 0)
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
}

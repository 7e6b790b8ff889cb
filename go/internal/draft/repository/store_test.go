package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// store is the method set shared by MemoryStore and SQLStore.
type store interface {
	CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListLeagues(ctx context.Context) ([]models.League, error)
	UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error)
	DeleteLeague(ctx context.Context, id uuid.UUID) error

	UpsertPlayers(ctx context.Context, reqs []UpsertPlayerRequest) ([]models.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error)
	UpdatePlayerTier(ctx context.Context, id uuid.UUID, tier *int) (*models.Player, error)

	CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListDraftsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Draft, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*models.Draft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error

	CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Team, error)

	CreateDraftPick(ctx context.Context, req CreateDraftPickRequest) (*models.DraftPick, error)
	GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	ResetDraftPicks(ctx context.Context, draftID uuid.UUID) (int, error)

	CreateKeeper(ctx context.Context, req CreateKeeperRequest) (*models.Keeper, error)
	GetKeepersByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Keeper, error)
	DeleteKeeper(ctx context.Context, id uuid.UUID) error

	GetDraftPlans(ctx context.Context, draftID uuid.UUID) ([]models.DraftPlan, error)
	ReplaceDraftPlans(ctx context.Context, draftID uuid.UUID, inputs []DraftPlanInput) ([]models.DraftPlan, error)
}

var (
	_ store = (*MemoryStore)(nil)
	_ store = (*SQLStore)(nil)
)

func forEachStore(t *testing.T, fn func(t *testing.T, s store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "draft.db")
		s, err := OpenSQLStore(context.Background(), string(DialectSQLite), dsn)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func seedDraft(t *testing.T, s store) (*models.League, *models.Draft) {
	t.Helper()
	ctx := context.Background()

	league, err := s.CreateLeague(ctx, CreateLeagueRequest{
		Name:          "Test League",
		NumberOfTeams: 2,
		RosterSize:    3,
		PositionalRequirements: []models.PositionalRequirement{
			{Position: models.PositionCatcher, Required: 1},
			{Position: models.PositionOutfield, Required: 1},
		},
		ScoringCategories: &models.ScoringCategories{Hitters: []string{"HR"}, Pitchers: []string{"K"}},
	})
	require.NoError(t, err)

	d, err := s.CreateDraft(ctx, CreateDraftRequest{
		LeagueID: league.ID,
		Name:     "Mock 1",
		Status:   models.DraftStatusSetup,
	})
	require.NoError(t, err)
	return league, d
}

func TestStore_LeagueRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		league, _ := seedDraft(t, s)

		got, err := s.GetLeague(ctx, league.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test League", got.Name)
		assert.Len(t, got.PositionalRequirements, 2)
		require.NotNil(t, got.ScoringCategories)
		assert.Equal(t, []string{"HR"}, got.ScoringCategories.Hitters)

		updated, err := s.UpdateLeague(ctx, league.ID, UpdateLeagueRequest{
			Name:          "Renamed",
			NumberOfTeams: 12,
			RosterSize:    23,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 12, updated.NumberOfTeams)
		assert.Nil(t, updated.ScoringCategories)

		_, err = s.GetLeague(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_DeleteLeagueCascades(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		league, d := seedDraft(t, s)

		require.NoError(t, s.DeleteLeague(ctx, league.ID))

		_, err := s.GetDraft(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteLeague(ctx, league.ID), ErrNotFound)
	})
}

func TestStore_UpsertPlayersMatchesByName(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()

		first, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
			{Name: "Juan Soto", Positions: []models.Position{models.PositionOutfield}, ADP: floatPtr(3)},
			{Name: "Will Smith", Positions: []models.Position{models.PositionCatcher}},
		})
		require.NoError(t, err)
		require.Len(t, first, 2)

		second, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
			{Name: "  juan soto ", Positions: []models.Position{models.PositionOutfield}, ADP: floatPtr(2), Tier: intPtr(1)},
		})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)

		players, err := s.ListPlayers(ctx)
		require.NoError(t, err)
		require.Len(t, players, 2)
		// ranked players first, unranked last
		assert.Equal(t, first[0].ID, players[0].ID)
		require.NotNil(t, players[0].ADP)
		assert.Equal(t, 2.0, *players[0].ADP)
		require.NotNil(t, players[0].Tier)
		assert.Equal(t, 1, *players[0].Tier)
		assert.Nil(t, players[1].ADP)
	})
}

func TestStore_UpdatePlayerTier(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		players, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{{Name: "A", Positions: []models.Position{models.PositionShortstop}}})
		require.NoError(t, err)

		p, err := s.UpdatePlayerTier(ctx, players[0].ID, intPtr(4))
		require.NoError(t, err)
		require.NotNil(t, p.Tier)
		assert.Equal(t, 4, *p.Tier)

		p, err = s.UpdatePlayerTier(ctx, players[0].ID, nil)
		require.NoError(t, err)
		assert.Nil(t, p.Tier)

		_, err = s.UpdatePlayerTier(ctx, uuid.New(), intPtr(1))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_CreateDraftRequiresLeague(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		_, err := s.CreateDraft(context.Background(), CreateDraftRequest{LeagueID: uuid.New(), Name: "x", Status: models.DraftStatusSetup})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_UpdateDraft(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)
		assert.Empty(t, d.DraftOrder)

		order := []uuid.UUID{uuid.New(), uuid.New()}
		status := models.DraftStatusInProgress
		updated, err := s.UpdateDraft(ctx, d.ID, UpdateDraftRequest{Status: &status, DraftOrder: order})
		require.NoError(t, err)
		assert.Equal(t, models.DraftStatusInProgress, updated.Status)
		assert.Equal(t, "Mock 1", updated.Name)

		got, err := s.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, order, got.DraftOrder)
		assert.Equal(t, models.DraftStatusInProgress, got.Status)
	})
}

func TestStore_TeamsKeepInsertionOrderAndSingleUserTeam(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)

		names := []string{"Zeta", "Alpha", "Mid"}
		for i, name := range names {
			_, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: name, IsUserTeam: i == 0})
			require.NoError(t, err)
		}
		_, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: "Second User", IsUserTeam: true})
		assert.ErrorIs(t, err, ErrConflict)

		teams, err := s.GetTeamsByDraft(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, teams, 3)
		for i, name := range names {
			assert.Equal(t, name, teams[i].Name)
		}
		assert.True(t, teams[0].IsUserTeam)

		_, err = s.CreateTeam(ctx, CreateTeamRequest{DraftID: uuid.New(), Name: "Orphan"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_PicksAreUniquePerDraft(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)
		team, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: "T1"})
		require.NoError(t, err)
		players, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
			{Name: "A", Positions: []models.Position{models.PositionOutfield}, ADP: floatPtr(1)},
			{Name: "B", Positions: []models.Position{models.PositionCatcher}, ADP: floatPtr(2)},
		})
		require.NoError(t, err)

		_, err = s.CreateDraftPick(ctx, CreateDraftPickRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[0].ID, PickNumber: 1, Slot: 1})
		require.NoError(t, err)

		// same player again
		_, err = s.CreateDraftPick(ctx, CreateDraftPickRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[0].ID, PickNumber: 2, Slot: 1})
		assert.ErrorIs(t, err, ErrConflict)

		// same pick number again
		_, err = s.CreateDraftPick(ctx, CreateDraftPickRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[1].ID, PickNumber: 1, Slot: 1})
		assert.ErrorIs(t, err, ErrConflict)

		got, err := s.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentPick)

		available, err := s.ListAvailablePlayers(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, players[1].ID, available[0].ID)

		_, err = s.ListAvailablePlayers(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ResetDraftPicks(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)
		team, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: "T1"})
		require.NoError(t, err)
		players, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
			{Name: "A", Positions: []models.Position{models.PositionOutfield}},
			{Name: "B", Positions: []models.Position{models.PositionCatcher}},
		})
		require.NoError(t, err)
		_, err = s.CreateKeeper(ctx, CreateKeeperRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[1].ID, DraftSlot: 3})
		require.NoError(t, err)

		status := models.DraftStatusInProgress
		_, err = s.UpdateDraft(ctx, d.ID, UpdateDraftRequest{Status: &status})
		require.NoError(t, err)
		for i, p := range players {
			_, err = s.CreateDraftPick(ctx, CreateDraftPickRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: p.ID, PickNumber: i + 1, Slot: 1})
			require.NoError(t, err)
		}

		deleted, err := s.ResetDraftPicks(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		got, err := s.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DraftStatusSetup, got.Status)
		assert.Equal(t, 0, got.CurrentPick)

		picks, err := s.GetDraftPicksByDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, picks)

		teams, err := s.GetTeamsByDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, teams, 1)

		keepers, err := s.GetKeepersByDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, keepers, 1)

		_, err = s.ResetDraftPicks(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Keepers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)
		team, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: "T1"})
		require.NoError(t, err)
		players, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
			{Name: "A", Positions: []models.Position{models.PositionOutfield}},
			{Name: "B", Positions: []models.Position{models.PositionCatcher}},
		})
		require.NoError(t, err)

		late, err := s.CreateKeeper(ctx, CreateKeeperRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[0].ID, DraftSlot: 10})
		require.NoError(t, err)
		_, err = s.CreateKeeper(ctx, CreateKeeperRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[1].ID, DraftSlot: 2})
		require.NoError(t, err)
		_, err = s.CreateKeeper(ctx, CreateKeeperRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[1].ID, DraftSlot: 4})
		assert.ErrorIs(t, err, ErrConflict)

		keepers, err := s.GetKeepersByDraft(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, keepers, 2)
		assert.Equal(t, 2, keepers[0].DraftSlot)

		require.NoError(t, s.DeleteKeeper(ctx, late.ID))
		assert.ErrorIs(t, s.DeleteKeeper(ctx, late.ID), ErrNotFound)
	})
}

func TestStore_ReplaceDraftPlans(t *testing.T) {
	forEachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, d := seedDraft(t, s)
		catcher := models.PositionCatcher

		plans, err := s.ReplaceDraftPlans(ctx, d.ID, []DraftPlanInput{
			{PickNumber: 8, Notes: "best available"},
			{PickNumber: 3, PlannedPosition: &catcher},
		})
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, 3, plans[0].PickNumber)
		require.NotNil(t, plans[0].PlannedPosition)
		assert.Equal(t, models.PositionCatcher, *plans[0].PlannedPosition)
		assert.Nil(t, plans[1].PlannedPosition)

		plans, err = s.ReplaceDraftPlans(ctx, d.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, plans)

		got, err := s.GetDraftPlans(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDialect_Rebind(t *testing.T) {
	query := `UPDATE drafts SET current_pick = $2, updated_at = $3 WHERE id = $1 AND $10 = $10`
	assert.Equal(t, query, DialectPostgres.Rebind(query))
	assert.Equal(t,
		`UPDATE drafts SET current_pick = ?2, updated_at = ?3 WHERE id = ?1 AND ?10 = ?10`,
		DialectSQLite.Rebind(query))
}

func TestSQLStore_OutOfOrderPlaceholders(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLStore(ctx, string(DialectSQLite), filepath.Join(t.TempDir(), "draft.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, d := seedDraft(t, s)
	team, err := s.CreateTeam(ctx, CreateTeamRequest{DraftID: d.ID, Name: "T1"})
	require.NoError(t, err)
	players, err := s.UpsertPlayers(ctx, []UpsertPlayerRequest{
		{Name: "A", Positions: []models.Position{models.PositionOutfield}},
	})
	require.NoError(t, err)

	_, err = s.CreateDraftPick(ctx, CreateDraftPickRequest{DraftID: d.ID, TeamID: team.ID, PlayerID: players[0].ID, PickNumber: 1, Slot: 1})
	require.NoError(t, err)
	got, err := s.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentPick, "the counter update must hit the draft row")

	_, err = s.DB().ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, d.ID)
	require.NoError(t, err)
	_, err = s.ResetDraftPicks(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sqlc-dev/pqtype"

	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/sqlutil"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db    querier
	clock clockwork.Clock
}

// numberedParams rewrites $N placeholders to ?N before they reach SQLite,
// which numbers $N by first appearance rather than by N.
type numberedParams struct {
	querier
}

func (n numberedParams) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return n.querier.ExecContext(ctx, DialectSQLite.Rebind(query), args...)
}

func (n numberedParams) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return n.querier.QueryContext(ctx, DialectSQLite.Rebind(query), args...)
}

func (n numberedParams) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return n.querier.QueryRowContext(ctx, DialectSQLite.Rebind(query), args...)
}

func (d Dialect) bind(db querier) querier {
	if d == DialectSQLite {
		return numberedParams{db}
	}
	return db
}

// SQLStore persists drafts in Postgres (lib/pq) or SQLite (go-sqlite3).
type SQLStore struct {
	*queries
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return NewSQLStoreWithClock(db, dialect, clockwork.NewRealClock())
}

func NewSQLStoreWithClock(db *sql.DB, dialect Dialect, clock clockwork.Clock) *SQLStore {
	return &SQLStore{
		queries: &queries{db: dialect.bind(db), clock: clock},
		db:      db,
		dialect: dialect,
	}
}

// OpenSQLStore opens the database for driver ("postgres" or "sqlite3"),
// verifies the connection and applies the schema.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialect := Dialect(driver)
	if _, ok := dialectTypes[dialect]; !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if dialect == DialectSQLite {
		dsn = withSQLiteForeignKeys(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewSQLStore(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// DB exposes the underlying handle for health checks.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) withTx(ctx context.Context, fn func(q *queries) error) error {
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) *queries {
		return &queries{db: s.dialect.bind(tx), clock: s.clock}
	}, fn)
}

func (q *queries) now() time.Time {
	return q.clock.Now().UTC()
}

// translateError maps driver errors onto ErrNotFound and ErrConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", pqErr.Message, ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", pqErr.Message, ErrNotFound)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w", liteErr.Error(), ErrConflict)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: %w", liteErr.Error(), ErrNotFound)
		}
	}
	return err
}

// requireRow fails when an UPDATE that must hit a row matched nothing.
func requireRow(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (q *queries) exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = $1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (q *queries) requireDraft(ctx context.Context, id uuid.UUID) error {
	ok, err := q.exists(ctx, "drafts", id)
	if err != nil {
		return fmt.Errorf("failed to look up draft: %w", err)
	}
	if !ok {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

// Leagues

const leagueColumns = `id, name, number_of_teams, roster_size, positional_requirements, scoring_categories, created_at, updated_at`

func scanLeague(row rowScanner) (*models.League, error) {
	var (
		l       models.League
		reqs    pqtype.NullRawMessage
		scoring pqtype.NullRawMessage
	)
	if err := row.Scan(&l.ID, &l.Name, &l.NumberOfTeams, &l.RosterSize, &reqs, &scoring, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSON(reqs, &l.PositionalRequirements); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSON(scoring, &l.ScoringCategories); err != nil {
		return nil, err
	}
	return &l, nil
}

func (q *queries) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	reqs, err := sqlutil.ToJSON(req.PositionalRequirements)
	if err != nil {
		return nil, err
	}
	scoring, err := sqlutil.ToJSON(req.ScoringCategories)
	if err != nil {
		return nil, err
	}

	now := q.now()
	id := uuid.New()
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO leagues (`+leagueColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, req.Name, req.NumberOfTeams, req.RosterSize, reqs, scoring, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert league: %w", translateError(err))
	}
	return &models.League{
		ID:                     id,
		Name:                   req.Name,
		NumberOfTeams:          req.NumberOfTeams,
		RosterSize:             req.RosterSize,
		PositionalRequirements: cloneRequirements(req.PositionalRequirements),
		ScoringCategories:      req.ScoringCategories,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

func (q *queries) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, id)
	l, err := scanLeague(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return l, nil
}

func (q *queries) ListLeagues(ctx context.Context) ([]models.League, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+leagueColumns+` FROM leagues ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	leagues := []models.League{}
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, *l)
	}
	return leagues, rows.Err()
}

func (q *queries) UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error) {
	reqs, err := sqlutil.ToJSON(req.PositionalRequirements)
	if err != nil {
		return nil, err
	}
	scoring, err := sqlutil.ToJSON(req.ScoringCategories)
	if err != nil {
		return nil, err
	}

	res, err := q.db.ExecContext(ctx,
		`UPDATE leagues SET name = $2, number_of_teams = $3, roster_size = $4,
			positional_requirements = $5, scoring_categories = $6, updated_at = $7
		WHERE id = $1`,
		id, req.Name, req.NumberOfTeams, req.RosterSize, reqs, scoring, q.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update league: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	return q.GetLeague(ctx, id)
}

func (q *queries) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	return nil
}

// Players

const playerColumns = `id, name, positions, team, adp, tier, auction_value, stats, created_at, updated_at`

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		p         models.Player
		positions pqtype.NullRawMessage
		stats     pqtype.NullRawMessage
		adp       sql.NullFloat64
		tier      sql.NullInt32
		value     sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Name, &positions, &p.Team, &adp, &tier, &value, &stats, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSON(positions, &p.Positions); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSON(stats, &p.Stats); err != nil {
		return nil, err
	}
	p.ADP = sqlutil.FromSqlFloat64(adp)
	p.Tier = sqlutil.FromSqlInt32(tier)
	p.AuctionValue = sqlutil.FromSqlFloat64(value)
	return &p, nil
}

func (q *queries) listPlayers(ctx context.Context, query string, args ...any) ([]models.Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortPlayersByADP(players)
	return players, nil
}

// UpsertPlayers matches incoming players to stored ones by lower-cased name.
func (s *SQLStore) UpsertPlayers(ctx context.Context, reqs []UpsertPlayerRequest) ([]models.Player, error) {
	var out []models.Player
	err := s.withTx(ctx, func(q *queries) error {
		type stored struct {
			id        uuid.UUID
			createdAt time.Time
		}
		rows, err := q.db.QueryContext(ctx, `SELECT id, name, created_at FROM players`)
		if err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		byName := make(map[string]stored)
		for rows.Next() {
			var (
				st   stored
				name string
			)
			if err := rows.Scan(&st.id, &name, &st.createdAt); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan player: %w", err)
			}
			byName[playerKey(name)] = st
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		now := q.now()
		out = make([]models.Player, 0, len(reqs))
		for _, req := range reqs {
			positions, err := sqlutil.ToJSON(req.Positions)
			if err != nil {
				return err
			}
			stats, err := sqlutil.ToJSON(req.Stats)
			if err != nil {
				return err
			}

			key := playerKey(req.Name)
			st, found := byName[key]
			if found {
				_, err = q.db.ExecContext(ctx,
					`UPDATE players SET name = $2, positions = $3, team = $4, adp = $5, tier = $6,
						auction_value = $7, stats = $8, updated_at = $9
					WHERE id = $1`,
					st.id, req.Name, positions, req.Team, sqlutil.ToSqlFloat64(req.ADP), sqlutil.ToSqlInt32(req.Tier),
					sqlutil.ToSqlFloat64(req.AuctionValue), stats, now)
			} else {
				st = stored{id: uuid.New(), createdAt: now}
				_, err = q.db.ExecContext(ctx,
					`INSERT INTO players (`+playerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
					st.id, req.Name, positions, req.Team, sqlutil.ToSqlFloat64(req.ADP), sqlutil.ToSqlInt32(req.Tier),
					sqlutil.ToSqlFloat64(req.AuctionValue), stats, now, now)
				byName[key] = st
			}
			if err != nil {
				return fmt.Errorf("failed to upsert player %q: %w", req.Name, translateError(err))
			}

			p := models.Player{ID: st.id, CreatedAt: st.createdAt, UpdatedAt: now}
			applyUpsert(&p, req)
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (q *queries) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

func (q *queries) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return q.listPlayers(ctx, `SELECT `+playerColumns+` FROM players`)
}

// ListAvailablePlayers returns players not yet picked in the draft.
func (q *queries) ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error) {
	if err := q.requireDraft(ctx, draftID); err != nil {
		return nil, err
	}
	return q.listPlayers(ctx,
		`SELECT `+playerColumns+` FROM players p
		WHERE NOT EXISTS (
			SELECT 1 FROM draft_picks dp WHERE dp.draft_id = $1 AND dp.player_id = p.id
		)`, draftID)
}

func (q *queries) UpdatePlayerTier(ctx context.Context, id uuid.UUID, tier *int) (*models.Player, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE players SET tier = $2, updated_at = $3 WHERE id = $1`,
		id, sqlutil.ToSqlInt32(tier), q.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update player tier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return q.GetPlayer(ctx, id)
}

// Drafts

const draftColumns = `id, league_id, name, status, current_pick, draft_order, created_at, updated_at`

func scanDraft(row rowScanner) (*models.Draft, error) {
	var (
		d     models.Draft
		order pqtype.NullRawMessage
	)
	if err := row.Scan(&d.ID, &d.LeagueID, &d.Name, &d.Status, &d.CurrentPick, &order, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSON(order, &d.DraftOrder); err != nil {
		return nil, err
	}
	if d.DraftOrder == nil {
		d.DraftOrder = []uuid.UUID{}
	}
	return &d, nil
}

func (s *SQLStore) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	var d *models.Draft
	err := s.withTx(ctx, func(q *queries) error {
		ok, err := q.exists(ctx, "leagues", req.LeagueID)
		if err != nil {
			return fmt.Errorf("failed to look up league: %w", err)
		}
		if !ok {
			return fmt.Errorf("league %s: %w", req.LeagueID, ErrNotFound)
		}

		order := cloneIDs(req.DraftOrder)
		orderJSON, err := sqlutil.ToJSON(order)
		if err != nil {
			return err
		}
		now := q.now()
		d = &models.Draft{
			ID:         uuid.New(),
			LeagueID:   req.LeagueID,
			Name:       req.Name,
			Status:     req.Status,
			DraftOrder: order,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		_, err = q.db.ExecContext(ctx,
			`INSERT INTO drafts (`+draftColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.ID, d.LeagueID, d.Name, d.Status, 0, orderJSON, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert draft: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (q *queries) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

func (q *queries) ListDraftsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Draft, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE league_id = $1 ORDER BY created_at DESC`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

func (s *SQLStore) UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*models.Draft, error) {
	var d *models.Draft
	err := s.withTx(ctx, func(q *queries) error {
		var err error
		d, err = q.GetDraft(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			d.Name = *req.Name
		}
		if req.Status != nil {
			d.Status = *req.Status
		}
		if req.CurrentPick != nil {
			d.CurrentPick = *req.CurrentPick
		}
		if req.DraftOrder != nil {
			d.DraftOrder = cloneIDs(req.DraftOrder)
		}
		d.UpdatedAt = q.now()

		orderJSON, err := sqlutil.ToJSON(d.DraftOrder)
		if err != nil {
			return err
		}
		_, err = q.db.ExecContext(ctx,
			`UPDATE drafts SET name = $2, status = $3, current_pick = $4, draft_order = $5, updated_at = $6
			WHERE id = $1`,
			id, d.Name, d.Status, d.CurrentPick, orderJSON, d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (q *queries) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

// Teams

const teamColumns = `id, draft_id, name, is_user_team, created_at`

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.DraftID, &t.Name, &t.IsUserTeam, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLStore) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	var team *models.Team
	err := s.withTx(ctx, func(q *queries) error {
		if err := q.requireDraft(ctx, req.DraftID); err != nil {
			return err
		}
		if req.IsUserTeam {
			var count int
			err := q.db.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM teams WHERE draft_id = $1 AND is_user_team = $2`,
				req.DraftID, true).Scan(&count)
			if err != nil {
				return fmt.Errorf("failed to count user teams: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("draft %s already has a user team: %w", req.DraftID, ErrConflict)
			}
		}

		team = &models.Team{
			ID:         uuid.New(),
			DraftID:    req.DraftID,
			Name:       req.Name,
			IsUserTeam: req.IsUserTeam,
			CreatedAt:  q.now(),
		}
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO teams (id, draft_id, name, is_user_team, seq, created_at)
			VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(seq), 0) + 1 FROM teams), $5)`,
			team.ID, team.DraftID, team.Name, team.IsUserTeam, team.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert team: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (q *queries) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	t, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return t, nil
}

func (q *queries) GetTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Team, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE draft_id = $1 ORDER BY seq`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// Picks

const pickColumns = `id, draft_id, team_id, player_id, pick_number, slot, created_at`

// CreateDraftPick inserts the pick and advances the draft's current_pick in
// one transaction. The unique keys on (draft_id, pick_number) and
// (draft_id, player_id) reject concurrent double-picks.
func (s *SQLStore) CreateDraftPick(ctx context.Context, req CreateDraftPickRequest) (*models.DraftPick, error) {
	var pk *models.DraftPick
	err := s.withTx(ctx, func(q *queries) error {
		if err := q.requireDraft(ctx, req.DraftID); err != nil {
			return err
		}

		now := q.now()
		pk = &models.DraftPick{
			ID:         uuid.New(),
			DraftID:    req.DraftID,
			TeamID:     req.TeamID,
			PlayerID:   req.PlayerID,
			PickNumber: req.PickNumber,
			Slot:       req.Slot,
			CreatedAt:  now,
		}
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO draft_picks (`+pickColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			pk.ID, pk.DraftID, pk.TeamID, pk.PlayerID, pk.PickNumber, pk.Slot, now)
		if err != nil {
			return fmt.Errorf("failed to insert pick: %w", translateError(err))
		}

		res, err := q.db.ExecContext(ctx,
			`UPDATE drafts SET current_pick = $2, updated_at = $3 WHERE id = $1`,
			req.DraftID, req.PickNumber, now)
		if err != nil {
			return fmt.Errorf("failed to advance draft: %w", err)
		}
		return requireRow(res, "advance draft %s", req.DraftID)
	})
	if err != nil {
		return nil, err
	}
	return pk, nil
}

func (q *queries) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pickColumns+` FROM draft_picks WHERE draft_id = $1 ORDER BY pick_number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var pk models.DraftPick
		if err := rows.Scan(&pk.ID, &pk.DraftID, &pk.TeamID, &pk.PlayerID, &pk.PickNumber, &pk.Slot, &pk.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pk)
	}
	return picks, rows.Err()
}

// ResetDraftPicks deletes every pick of a draft and puts the draft back into
// setup with a zero pick counter.
func (s *SQLStore) ResetDraftPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	var deleted int64
	err := s.withTx(ctx, func(q *queries) error {
		if err := q.requireDraft(ctx, draftID); err != nil {
			return err
		}
		res, err := q.db.ExecContext(ctx, `DELETE FROM draft_picks WHERE draft_id = $1`, draftID)
		if err != nil {
			return fmt.Errorf("failed to delete picks: %w", err)
		}
		deleted, _ = res.RowsAffected()

		res, err = q.db.ExecContext(ctx,
			`UPDATE drafts SET status = $2, current_pick = 0, updated_at = $3 WHERE id = $1`,
			draftID, models.DraftStatusSetup, q.now())
		if err != nil {
			return fmt.Errorf("failed to reset draft: %w", err)
		}
		return requireRow(res, "reset draft %s", draftID)
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// Keepers

const keeperColumns = `id, draft_id, team_id, player_id, draft_slot, created_at`

func (s *SQLStore) CreateKeeper(ctx context.Context, req CreateKeeperRequest) (*models.Keeper, error) {
	var k *models.Keeper
	err := s.withTx(ctx, func(q *queries) error {
		if err := q.requireDraft(ctx, req.DraftID); err != nil {
			return err
		}
		k = &models.Keeper{
			ID:        uuid.New(),
			DraftID:   req.DraftID,
			TeamID:    req.TeamID,
			PlayerID:  req.PlayerID,
			DraftSlot: req.DraftSlot,
			CreatedAt: q.now(),
		}
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO keepers (`+keeperColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
			k.ID, k.DraftID, k.TeamID, k.PlayerID, k.DraftSlot, k.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert keeper: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (q *queries) GetKeepersByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Keeper, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+keeperColumns+` FROM keepers WHERE draft_id = $1 ORDER BY draft_slot, created_at`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keepers: %w", err)
	}
	defer rows.Close()

	var keepers []models.Keeper
	for rows.Next() {
		var k models.Keeper
		if err := rows.Scan(&k.ID, &k.DraftID, &k.TeamID, &k.PlayerID, &k.DraftSlot, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keeper: %w", err)
		}
		keepers = append(keepers, k)
	}
	return keepers, rows.Err()
}

func (q *queries) DeleteKeeper(ctx context.Context, id uuid.UUID) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM keepers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keeper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("keeper %s: %w", id, ErrNotFound)
	}
	return nil
}

// Plans

func (q *queries) GetDraftPlans(ctx context.Context, draftID uuid.UUID) ([]models.DraftPlan, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, draft_id, pick_number, planned_position, notes, created_at
		FROM draft_plans WHERE draft_id = $1 ORDER BY pick_number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft plans: %w", err)
	}
	defer rows.Close()

	plans := []models.DraftPlan{}
	for rows.Next() {
		var (
			p   models.DraftPlan
			pos sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.DraftID, &p.PickNumber, &pos, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft plan: %w", err)
		}
		if s := sqlutil.FromSqlStringPtr(pos); s != nil {
			position := models.Position(*s)
			p.PlannedPosition = &position
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ReplaceDraftPlans swaps the full plan set for a draft.
func (s *SQLStore) ReplaceDraftPlans(ctx context.Context, draftID uuid.UUID, inputs []DraftPlanInput) ([]models.DraftPlan, error) {
	var plans []models.DraftPlan
	err := s.withTx(ctx, func(q *queries) error {
		if err := q.requireDraft(ctx, draftID); err != nil {
			return err
		}
		if _, err := q.db.ExecContext(ctx, `DELETE FROM draft_plans WHERE draft_id = $1`, draftID); err != nil {
			return fmt.Errorf("failed to clear draft plans: %w", err)
		}

		now := q.now()
		for _, in := range inputs {
			var pos *string
			if in.PlannedPosition != nil {
				s := string(*in.PlannedPosition)
				pos = &s
			}
			_, err := q.db.ExecContext(ctx,
				`INSERT INTO draft_plans (id, draft_id, pick_number, planned_position, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), draftID, in.PickNumber, sqlutil.ToSqlString(pos), in.Notes, now)
			if err != nil {
				return fmt.Errorf("failed to insert draft plan: %w", err)
			}
		}

		var err error
		plans, err = q.GetDraftPlans(ctx, draftID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}

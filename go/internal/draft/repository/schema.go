package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects the SQL flavour of the schema. Queries are written once with
// $n placeholders and rebound per dialect.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS leagues (
		id {{uuid}} PRIMARY KEY,
		name TEXT NOT NULL,
		number_of_teams INTEGER NOT NULL,
		roster_size INTEGER NOT NULL,
		positional_requirements {{json}},
		scoring_categories {{json}},
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id {{uuid}} PRIMARY KEY,
		name TEXT NOT NULL,
		positions {{json}},
		team TEXT NOT NULL DEFAULT '',
		adp DOUBLE PRECISION,
		tier INTEGER,
		auction_value DOUBLE PRECISION,
		stats {{json}},
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_players_lower_name ON players (lower(name))`,
	`CREATE TABLE IF NOT EXISTS drafts (
		id {{uuid}} PRIMARY KEY,
		league_id {{uuid}} NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		current_pick INTEGER NOT NULL DEFAULT 0,
		draft_order {{json}},
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_league ON drafts (league_id)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id {{uuid}} PRIMARY KEY,
		draft_id {{uuid}} NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_user_team {{bool}} NOT NULL DEFAULT FALSE,
		seq BIGINT NOT NULL DEFAULT 0,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_draft ON teams (draft_id)`,
	`CREATE TABLE IF NOT EXISTS draft_picks (
		id {{uuid}} PRIMARY KEY,
		draft_id {{uuid}} NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		team_id {{uuid}} NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id {{uuid}} NOT NULL REFERENCES players(id),
		pick_number INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		created_at {{ts}} NOT NULL,
		UNIQUE (draft_id, pick_number),
		UNIQUE (draft_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS keepers (
		id {{uuid}} PRIMARY KEY,
		draft_id {{uuid}} NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		team_id {{uuid}} NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id {{uuid}} NOT NULL REFERENCES players(id),
		draft_slot INTEGER NOT NULL,
		created_at {{ts}} NOT NULL,
		UNIQUE (draft_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS draft_plans (
		id {{uuid}} PRIMARY KEY,
		draft_id {{uuid}} NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		pick_number INTEGER NOT NULL,
		planned_position TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_draft_plans_draft ON draft_plans (draft_id, pick_number)`,
}

var dialectTypes = map[Dialect]*strings.Replacer{
	DialectPostgres: strings.NewReplacer(
		"{{uuid}}", "UUID",
		"{{json}}", "JSONB",
		"{{ts}}", "TIMESTAMPTZ",
		"{{bool}}", "BOOLEAN",
	),
	DialectSQLite: strings.NewReplacer(
		"{{uuid}}", "TEXT",
		"{{json}}", "BLOB",
		"{{ts}}", "TIMESTAMP",
		"{{bool}}", "BOOLEAN",
	),
}

var dollarParam = regexp.MustCompile(`\$(\d+)`)

// Rebind rewrites the shared $N placeholders for the dialect. SQLite gets ?N,
// which binds argument N no matter where or how often it appears.
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	return dollarParam.ReplaceAllString(query, "?$1")
}

// Schema returns the DDL statements for a dialect.
func Schema(d Dialect) ([]string, error) {
	r, ok := dialectTypes[d]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
	out := make([]string, len(schemaStatements))
	for i, stmt := range schemaStatements {
		out[i] = r.Replace(stmt)
	}
	return out, nil
}

// Migrate creates any missing tables and indexes.
func (s *SQLStore) Migrate(ctx context.Context) error {
	stmts, err := Schema(s.dialect)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

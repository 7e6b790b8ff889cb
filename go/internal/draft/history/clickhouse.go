package history

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
)

// conn is the part of driver.Conn the sink uses
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Close() error
}

type Config struct {
	Addr     string
	Database string
	Username string
	Password string
}

// PlayerADP is a player's average draft position across recorded mock drafts.
type PlayerADP struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Drafts     uint64    `json:"drafts"`
	AvgPick    float64   `json:"avg_pick"`
	MinPick    uint32    `json:"min_pick"`
	MaxPick    uint32    `json:"max_pick"`
}

// ClickHouseSink records PickMade events so mock-draft ADP can be reported
// across drafts. A DraftReset removes the draft's earlier picks so abandoned
// picks do not count. Other event types are ignored.
type ClickHouseSink struct {
	conn conn
}

func Open(ctx context.Context, cfg Config) (*ClickHouseSink, error) {
	c, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &ClickHouseSink{conn: c}
	if err := s.Migrate(ctx); err != nil {
		c.Close()
		return nil, err
	}
	log.Info().Str("addr", cfg.Addr).Str("database", cfg.Database).Msg("connected to ClickHouse")
	return s, nil
}

// ReplacingMergeTree collapses events redelivered with the same ID.
const createPickHistory = `
	CREATE TABLE IF NOT EXISTS draft_pick_history (
		event_id     UUID,
		draft_id     UUID,
		player_id    UUID,
		player_name  String,
		team_name    String,
		positions    Array(String),
		overall_pick UInt32,
		round        UInt32,
		auto_pick    Bool,
		made_at      DateTime64(3, 'UTC')
	)
	ENGINE = ReplacingMergeTree
	ORDER BY (player_id, event_id)
`

func (s *ClickHouseSink) Migrate(ctx context.Context) error {
	if err := s.conn.Exec(ctx, createPickHistory); err != nil {
		return fmt.Errorf("failed to create draft_pick_history: %w", err)
	}
	return nil
}

func (s *ClickHouseSink) Publish(ctx context.Context, evt events.Event) error {
	switch evt.Type {
	case events.TypePickMade:
		return s.recordPick(ctx, evt)
	case events.TypeDraftReset:
		return s.forgetPicks(ctx, evt)
	}
	return nil
}

// forgetPicks deletes picks made up to the reset. Picks made after it in the
// same draft are kept even though the mutation runs asynchronously.
func (s *ClickHouseSink) forgetPicks(ctx context.Context, evt events.Event) error {
	var p events.DraftResetPayload
	if err := evt.Decode(&p); err != nil {
		return err
	}
	resetAt := p.ResetAt
	if resetAt.IsZero() {
		resetAt = evt.OccurredAt
	}
	err := s.conn.Exec(ctx,
		`ALTER TABLE draft_pick_history DELETE WHERE draft_id = ? AND made_at <= ?`,
		evt.DraftID, resetAt,
	)
	if err != nil {
		return fmt.Errorf("failed to drop reset picks: %w", err)
	}
	return nil
}

func (s *ClickHouseSink) recordPick(ctx context.Context, evt events.Event) error {

	var p events.PickMadePayload
	if err := evt.Decode(&p); err != nil {
		return err
	}
	playerID, err := uuid.Parse(p.PlayerID)
	if err != nil {
		return fmt.Errorf("invalid player id %q: %w", p.PlayerID, err)
	}
	positions := p.Positions
	if positions == nil {
		positions = []string{}
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO draft_pick_history
			(event_id, draft_id, player_id, player_name, team_name, positions, overall_pick, round, auto_pick, made_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.DraftID, playerID, p.PlayerName, p.TeamName, positions,
		uint32(p.OverallPick), uint32(p.Round), p.AutoPick, p.MadeAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record pick: %w", err)
	}
	return nil
}

// AverageDraftPositions reports players by average overall pick, earliest first.
func (s *ClickHouseSink) AverageDraftPositions(ctx context.Context, limit int) ([]PlayerADP, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			player_id,
			any(player_name),
			count(),
			avg(overall_pick),
			min(overall_pick),
			max(overall_pick)
		FROM draft_pick_history FINAL
		GROUP BY player_id
		ORDER BY avg(overall_pick) ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query draft positions: %w", err)
	}
	defer rows.Close()

	var out []PlayerADP
	for rows.Next() {
		var r PlayerADP
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.Drafts, &r.AvgPick, &r.MinPick, &r.MaxPick); err != nil {
			return nil, fmt.Errorf("failed to scan draft position: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read draft positions: %w", err)
	}
	return out, nil
}

func (s *ClickHouseSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

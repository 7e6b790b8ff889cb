package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/spragsdale/mockdraftapp/go/internal/dbconfig"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

// seed_players upserts a players JSON file into Postgres. Players match on
// case-insensitive name, so re-running with fresh projections updates in place.
func main() {
	_ = godotenv.Load()
	file := flag.String("file", os.Getenv("PLAYERS_FILE"), "players JSON file (defaults to $PLAYERS_FILE)")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed_players -file players.json")
		os.Exit(2)
	}

	// 1) Load the JSON snapshot
	reqs, err := player.LoadPlayersFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load players: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to Postgres
	ctx := context.Background()
	dbCfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db config: %v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, dbCfg.PostgresURL())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect db: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := ensureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		os.Exit(1)
	}

	// 3) Upsert each player
	var inserted, updated, failed int
	for _, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || len(req.Positions) == 0 {
			fmt.Fprintf(os.Stderr, "skip player %q: name and positions are required\n", req.Name)
			failed++
			continue
		}
		created, err := upsertPlayer(ctx, pool, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "upsert %q: %v\n", req.Name, err)
			failed++
			continue
		}
		if created {
			inserted++
		} else {
			updated++
		}
	}

	fmt.Printf("Seeded %d players: %d inserted, %d updated, %d failed\n", len(reqs), inserted, updated, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts, err := repository.Schema(repository.DialectPostgres)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// upsertPlayer reports whether a new row was inserted.
func upsertPlayer(ctx context.Context, pool *pgxpool.Pool, req repository.UpsertPlayerRequest) (bool, error) {
	stats := req.Stats
	if stats == nil {
		stats = map[string]float64{}
	}

	var created bool
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		tag, err := tx.Exec(ctx, `
			UPDATE players
			SET positions = $2, team = $3, adp = $4, tier = $5, auction_value = $6, stats = $7, updated_at = $8
			WHERE lower(name) = lower($1)`,
			req.Name, req.Positions, req.Team, req.ADP, req.Tier, req.AuctionValue, stats, now,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO players (id, name, positions, team, adp, tier, auction_value, stats, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
			uuid.New(), req.Name, req.Positions, req.Team, req.ADP, req.Tier, req.AuctionValue, stats, now,
		)
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

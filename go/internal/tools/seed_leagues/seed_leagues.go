package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/spragsdale/mockdraftapp/go/internal/dbconfig"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
)

// seed_leagues inserts league presets whose names are not already taken.
func main() {
	file := flag.String("file", "configs/leagues.yaml", "league presets YAML file")
	flag.Parse()
	_ = godotenv.Load()

	presets, err := leagues.LoadPresets(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load presets: %v\n", err)
		os.Exit(1)
	}

	// Run the presets through the league rules against a scratch store first
	ctx := context.Background()
	if _, err := leagues.NewApp(repository.NewMemoryStore()).SeedPresets(ctx, presets); err != nil {
		fmt.Fprintf(os.Stderr, "invalid presets: %v\n", err)
		os.Exit(1)
	}

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

	stmts, err := repository.Schema(repository.DialectPostgres)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		os.Exit(1)
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
	}

	created := 0
	for _, p := range presets {
		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM leagues WHERE lower(name) = lower($1))`, p.Name,
		).Scan(&exists); err != nil {
			fmt.Fprintf(os.Stderr, "lookup %q: %v\n", p.Name, err)
			os.Exit(1)
		}
		if exists {
			fmt.Printf("League %q already exists, skipping\n", p.Name)
			continue
		}

		now := time.Now().UTC()
		_, err := pool.Exec(ctx, `
			INSERT INTO leagues (id, name, number_of_teams, roster_size, positional_requirements, scoring_categories, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			uuid.New(), p.Name, p.NumberOfTeams, p.RosterSize, p.PositionalRequirements, p.ScoringCategories, now,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insert %q: %v\n", p.Name, err)
			os.Exit(1)
		}
		created++
	}

	fmt.Printf("Seeded %d of %d league presets\n", created, len(presets))
}

package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/config"
	"github.com/spragsdale/mockdraftapp/go/internal/dbconfig"
	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
	"github.com/spragsdale/mockdraftapp/go/internal/mcp"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

// store is the subset of repositories the MCP tools touch.
type store interface {
	draft.DraftRepository
	draft.LeaguesRepository
	player.PlayerRepository
	leagues.LeaguesRepository
}

// stdout carries the MCP protocol, so every log line goes to stderr.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		config.SetupLogging("info", "json", os.Stderr)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()
	st, err := openStore(ctx, cfg.StoreDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	players := player.NewApp(st)
	if cfg.PlayersFile != "" {
		reqs, err := player.LoadPlayersFile(cfg.PlayersFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read players file")
		}
		if _, err := players.UpsertPlayers(ctx, reqs); err != nil {
			log.Fatal().Err(err).Msg("failed to load players")
		}
	}
	drafts := draft.NewApp(st, st, st, draft.WithTurnEnforcement(cfg.EnforceTurn))

	log.Info().Str("store", cfg.StoreDriver).Msg("starting mock draft MCP server")
	if err := server.ServeStdio(mcp.NewServer(drafts, players)); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}

func openStore(ctx context.Context, driver string) (store, error) {
	if driver == config.StoreMemory {
		return repository.NewMemoryStore(), nil
	}
	dbCfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	dsn, err := dbCfg.DSN(driver)
	if err != nil {
		return nil, err
	}
	return repository.OpenSQLStore(ctx, driver, dsn)
}

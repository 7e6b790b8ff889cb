package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/config"
	"github.com/spragsdale/mockdraftapp/go/internal/dbconfig"
	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

// Store is every repository the apps need. MemoryStore and SQLStore both
// satisfy it.
type Store interface {
	draft.DraftRepository
	draft.LeaguesRepository
	player.PlayerRepository
	leagues.LeaguesRepository
}

func setupStore(ctx context.Context, driver string) (Store, func() error, error) {
	if driver == config.StoreMemory {
		log.Info().Msg("using in-memory store")
		return repository.NewMemoryStore(), func() error { return nil }, nil
	}

	dbCfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	dsn, err := dbCfg.DSN(driver)
	if err != nil {
		return nil, nil, err
	}

	store, err := repository.OpenSQLStore(ctx, driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}

	evt := log.Info().Str("driver", driver)
	if driver == config.StorePostgres {
		evt = evt.Str("host", dbCfg.Host).Int("port", dbCfg.Port).Str("database", dbCfg.Database)
	} else {
		evt = evt.Str("path", dbCfg.SQLitePath)
	}
	evt.Msg("connected to database")
	return store, store.Close, nil
}

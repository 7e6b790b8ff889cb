package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/config"
	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/gateway"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/history"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/outbox"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

type Services struct {
	Drafts  *draft.App
	Leagues *leagues.App
	Players *player.App

	Dispatcher *outbox.Dispatcher
	WebSocket  *gateway.WebSocketHandler
	Health     *outbox.DispatcherHealthChecker
	History    *history.ClickHouseSink

	closers []func()
}

// setupServices wires the store into the apps and the event pipeline:
// App -> Dispatcher -> sinks (JetStream or WebSocket, plus ClickHouse history).
func setupServices(ctx context.Context, cfg *config.Config, store Store) (*Services, error) {
	s := &Services{}

	counters := outbox.NewCounters()
	s.Dispatcher = outbox.NewDispatcher(outbox.DefaultConfig(), counters)

	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go connections.Start(ctx)

	var natsUp func() bool
	if cfg.NATS.Enabled {
		up, err := s.setupJetStream(ctx, cfg.NATS, connections)
		if err != nil {
			s.Close()
			return nil, err
		}
		natsUp = up
	} else {
		s.Dispatcher.AddSink("websocket", connections)
	}

	if cfg.ClickHouseEnabled() {
		// history is best-effort, so the server starts without it
		sink, err := history.Open(ctx, history.Config{
			Addr:     cfg.ClickHouse.Addr,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.ClickHouse.Addr).Msg("pick history disabled")
		} else {
			s.History = sink
			s.Dispatcher.AddSink("history", sink)
			s.closers = append(s.closers, func() {
				if err := sink.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close ClickHouse connection")
				}
			})
		}
	}

	if err := s.Dispatcher.Start(ctx); err != nil {
		s.Close()
		return nil, err
	}

	s.Leagues = leagues.NewApp(store)
	s.Players = player.NewApp(store)
	s.Drafts = draft.NewApp(store, store, store,
		draft.WithPublisher(s.Dispatcher),
		draft.WithTurnEnforcement(cfg.EnforceTurn),
	)

	s.WebSocket = gateway.NewWebSocketHandler(connections, gateway.StateProviderFunc(
		func(ctx context.Context, draftID uuid.UUID) (any, error) {
			return s.Drafts.Board(ctx, draftID)
		},
	))
	s.Health = outbox.NewDispatcherHealthChecker(s.Dispatcher, counters, natsUp)
	return s, nil
}

// setupJetStream publishes events to JetStream and feeds WebSocket clients
// from a durable consumer, so gateways in other processes see the same stream.
func (s *Services) setupJetStream(ctx context.Context, cfg config.NATSConfig, connections *gateway.ConnectionManager) (func() bool, error) {
	url := cfg.URL
	if cfg.Embedded {
		es, err := outbox.StartEmbeddedServer(outbox.EmbeddedOptions{StoreDir: cfg.StoreDir})
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded NATS: %w", err)
		}
		s.closers = append(s.closers, es.Shutdown)
		url = es.ClientURL()
	}

	pubCfg := outbox.DefaultJetStreamConfig()
	pubCfg.URL = url
	pubCfg.StreamName = cfg.Stream
	publisher, err := outbox.NewJetStreamPublisher(ctx, pubCfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close JetStream publisher")
		}
	})
	s.Dispatcher.AddSink("jetstream", publisher)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	consumerCfg.URL = url
	consumerCfg.StreamName = cfg.Stream
	consumer, err := gateway.NewEventConsumer(ctx, connections, consumerCfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		if err := consumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	})
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer stopped")
		}
	}()

	log.Info().Str("url", url).Str("stream", cfg.Stream).Bool("embedded", cfg.Embedded).Msg("JetStream delivery enabled")
	return publisher.Connected, nil
}

// seedData loads league presets and the optional players file. A missing
// presets file is not an error.
func (s *Services) seedData(ctx context.Context, cfg *config.Config) error {
	if cfg.LeaguePresets != "" {
		presets, err := leagues.LoadPresets(cfg.LeaguePresets)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Info().Str("path", cfg.LeaguePresets).Msg("no league presets file, skipping")
		case err != nil:
			return err
		default:
			created, err := s.Leagues.SeedPresets(ctx, presets)
			if err != nil {
				return fmt.Errorf("failed to seed league presets: %w", err)
			}
			log.Info().Int("created", created).Int("presets", len(presets)).Msg("seeded league presets")
		}
	}

	if cfg.PlayersFile != "" {
		reqs, err := player.LoadPlayersFile(cfg.PlayersFile)
		if err != nil {
			return err
		}
		if _, err := s.Players.UpsertPlayers(ctx, reqs); err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
	}
	return nil
}

// Close drains queued events, then releases sinks in reverse order.
func (s *Services) Close() {
	if s.Dispatcher != nil && s.Dispatcher.Running() {
		if err := s.Dispatcher.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop outbox dispatcher")
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

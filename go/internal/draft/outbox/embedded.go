package outbox

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog/log"
)

// EmbeddedServer runs a NATS server with JetStream inside the process, for
// development and tests without external infrastructure.
type EmbeddedServer struct {
	server *server.Server
}

type EmbeddedOptions struct {
	Port     int    // 0 or -1 picks a free port
	StoreDir string // JetStream storage directory; empty uses the server default
}

func StartEmbeddedServer(opts EmbeddedOptions) (*EmbeddedServer, error) {
	port := opts.Port
	if port == 0 {
		port = -1
	}

	ns, err := server.NewServer(&server.Options{
		Port:      port,
		JetStream: true,
		NoSigs:    true,
		StoreDir:  opts.StoreDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(natsLogger{}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}

	log.Info().Str("url", ns.ClientURL()).Msg("embedded NATS server started")
	return &EmbeddedServer{server: ns}, nil
}

func (e *EmbeddedServer) ClientURL() string { return e.server.ClientURL() }

func (e *EmbeddedServer) Shutdown() {
	e.server.Shutdown()
	e.server.WaitForShutdown()
	log.Info().Msg("embedded NATS server shut down")
}

// natsLogger routes NATS server logs into zerolog
type natsLogger struct{}

func (natsLogger) Noticef(format string, v ...interface{}) {
	log.Info().Str("component", "nats").Msgf(format, v...)
}

func (natsLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Str("component", "nats").Msgf(format, v...)
}

func (natsLogger) Fatalf(format string, v ...interface{}) {
	log.Error().Str("component", "nats").Msgf(format, v...)
}

func (natsLogger) Errorf(format string, v ...interface{}) {
	log.Error().Str("component", "nats").Msgf(format, v...)
}

func (natsLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Str("component", "nats").Msgf(format, v...)
}

func (natsLogger) Tracef(format string, v ...interface{}) {
	log.Trace().Str("component", "nats").Msgf(format, v...)
}

package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite3"
)

// Config holds server settings read from the environment.
type Config struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"LOG_FORMAT" default:"json"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	StoreDriver   string `envconfig:"STORE_DRIVER" default:"memory"`
	LeaguePresets string `envconfig:"LEAGUE_PRESETS" default:"configs/leagues.yaml"`
	// PlayersFile is an optional JSON player list upserted at startup.
	PlayersFile string `envconfig:"PLAYERS_FILE" default:""`
	// EnforceTurn rejects manual picks from teams that are not on the clock.
	EnforceTurn bool `envconfig:"ENFORCE_TURN" default:"false"`

	NATS       NATSConfig       `envconfig:"NATS"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
}

// NATSConfig controls JetStream delivery. With Embedded set, an in-process
// server is started and URL is ignored.
type NATSConfig struct {
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	URL      string `envconfig:"URL" default:"nats://localhost:4222"`
	Embedded bool   `envconfig:"EMBEDDED" default:"false"`
	StoreDir string `envconfig:"STORE_DIR" default:""`
	Stream   string `envconfig:"STREAM" default:"MOCK_DRAFT_EVENTS"`
}

// ClickHouseConfig enables the pick history sink when Addr is set.
type ClickHouseConfig struct {
	Addr     string `envconfig:"ADDR" default:""`
	Database string `envconfig:"DATABASE" default:"default"`
	Username string `envconfig:"USERNAME" default:"default"`
	Password string `envconfig:"PASSWORD" default:""`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// ClickHouseEnabled reports whether pick history should be recorded.
func (c *Config) ClickHouseEnabled() bool {
	return c.ClickHouse.Addr != ""
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "MOCK_DRAFT_EVENTS", cfg.NATS.Stream)
	assert.False(t, cfg.ClickHouseEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://draft.example.com")
	t.Setenv("ENFORCE_TURN", "true")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_EMBEDDED", "true")
	t.Setenv("CLICKHOUSE_ADDR", "localhost:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, []string{"http://localhost:5173", "https://draft.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.EnforceTurn)
	assert.True(t, cfg.NATS.Enabled)
	assert.True(t, cfg.NATS.Embedded)
	assert.True(t, cfg.ClickHouseEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver", "STORE_DRIVER", "mongo"},
		{"log level", "LOG_LEVEL", "loud"},
		{"log format", "LOG_FORMAT", "xml"},
		{"bool", "NATS_ENABLED", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetupLogging("warn", "json", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("draft_id", "abc").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"draft_id":"abc"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

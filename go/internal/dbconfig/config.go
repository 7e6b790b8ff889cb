package dbconfig

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

// Config holds database connection settings.
type Config struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD" default:"postgres"`
	Database string `envconfig:"NAME" default:"mockdraft"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
	// SQLitePath is the database file used by the sqlite3 driver.
	SQLitePath string `envconfig:"SQLITE_PATH" default:"mockdraft.db"`
}

// NewConfigFromEnv reads DB_* environment variables (with defaults).
func NewConfigFromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("DB", &c); err != nil {
		return Config{}, fmt.Errorf("failed to process DB env config: %w", err)
	}
	return c, nil
}

// DSN returns the connection string for driver ("postgres" or "sqlite3").
func (c Config) DSN(driver string) (string, error) {
	switch driver {
	case "postgres":
		return c.PostgresURL(), nil
	case "sqlite3":
		return c.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// PostgresURL returns the Postgres connection URL. pgx and lib/pq both
// accept it.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

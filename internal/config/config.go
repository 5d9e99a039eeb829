// Package config provides centralized configuration management for the dashboard.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Dataset source kinds accepted by DATASET_SOURCE.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	View     ViewConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Live     LiveConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8053)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8053"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 0, websockets stay open)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatasetConfig describes where the season and player tables come from.
type DatasetConfig struct {
	// Source selects the loader: file, postgres or sqlite (default: file)
	Source string `env:"DATASET_SOURCE" default:"file"`

	// SeasonFile is the season statistics workbook or CSV
	SeasonFile string `env:"SEASON_FILE" default:"PlayerSeason.2022.xlsx"`

	// SeasonSheet is the worksheet holding season rows (xlsx only)
	SeasonSheet string `env:"SEASON_SHEET" default:"PlayerSeason.2022"`

	// PlayerFile is the player metadata workbook or CSV
	PlayerFile string `env:"PLAYER_FILE" default:"Player.2022.xlsx"`

	// PlayerSheet is the worksheet holding player rows (xlsx only)
	PlayerSheet string `env:"PLAYER_SHEET" default:"Player.2022"`

	// SeasonTable is the SQL table holding season rows
	SeasonTable string `env:"SEASON_TABLE" default:"player_season"`

	// PlayerTable is the SQL table holding player rows
	PlayerTable string `env:"PLAYER_TABLE" default:"player"`

	// StatisticOffset is the index of the first statistic column (default: 8)
	StatisticOffset int `env:"STAT_COLUMN_OFFSET" default:"8"`

	// LoadTimeout bounds the startup load (default: 30s)
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds PostgreSQL settings, used when DATASET_SOURCE=postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`
}

// SQLiteConfig holds SQLite settings, used when DATASET_SOURCE=sqlite.
type SQLiteConfig struct {
	// Path is the database file (default: statdash.db)
	Path string `env:"SQLITE_PATH" default:"statdash.db"`
}

// ViewConfig holds the dashboard's selection defaults.
type ViewConfig struct {
	// Title is the dashboard heading (default: NFL Statistical Analysis)
	Title string `env:"DASHBOARD_TITLE" default:"NFL Statistical Analysis"`

	// DefaultStatistic is the statistic shown on first load (default: PassingAttempts)
	DefaultStatistic string `env:"VIEW_DEFAULT_STATISTIC" default:"PassingAttempts"`

	// DefaultLimit is the result count shown on first load (default: 100)
	DefaultLimit int `env:"VIEW_DEFAULT_LIMIT" default:"100"`

	// LimitChoices are the result counts offered in the dropdown
	LimitChoices []int `env:"VIEW_LIMIT_CHOICES" default:"10,20,50,100,200,500"`

	// PageSize is the number of player rows per table page (default: 10)
	PageSize int `env:"PLAYER_PAGE_SIZE" default:"10"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// CORSOrigins are the origins allowed to call /api (default: *)
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*"`
}

// LiveConfig holds settings for websocket view sessions.
type LiveConfig struct {
	// MaxSessions is the maximum number of open sessions (default: 100)
	MaxSessions int `env:"LIVE_MAX_SESSIONS" default:"100"`

	// MaxWait is how long a new session waits for a free slot (default: 2s)
	MaxWait time.Duration `env:"LIVE_MAX_WAIT" default:"2s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

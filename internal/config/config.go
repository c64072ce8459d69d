// Package config provides centralized configuration management for the dashboard.
// It loads configuration from environment variables with sensible defaults,
// optionally overlays a TOML file for dashboard texts, colours and data
// candidates, and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8501)
	Port int `env:"SERVER_PORT" default:"8501"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig controls where the project table is read from.
type DataConfig struct {
	// Dir is the directory candidate file names are resolved against (default: .)
	Dir string `env:"DATA_DIR" default:"."`

	// Candidates is the ordered, comma-separated list of file names to try.
	Candidates []string `env:"DATA_CANDIDATES" default:"dados.xlsx.xlsx,dados.xlsx,dados.csv"`

	// CacheTTL is how long a loaded table is reused (default: 2s)
	CacheTTL time.Duration `env:"DATA_CACHE_TTL" default:"2s"`

	// SQLiteTable is the table read from .db/.sqlite candidates (default: projetos)
	SQLiteTable string `env:"DATA_SQLITE_TABLE" default:"projetos"`

	// PostgresQuery is run when DATABASE_URL is set.
	PostgresQuery string `env:"DATA_POSTGRES_QUERY"`
}

// DatabaseConfig holds the optional PostgreSQL source settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables the source.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 5m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
}

// Enabled reports whether a PostgreSQL source is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DashboardConfig holds page texts and status colours. Only the TOML file
// sets StatusColors.
type DashboardConfig struct {
	// File is an optional TOML overlay.
	File string `env:"PAINEL_CONFIG"`

	Title   string `env:"DASHBOARD_TITLE" default:"Monitoramento de Projetos Estratégicos"`
	Caption string `env:"DASHBOARD_CAPTION" default:"Painel de Monitoramento Interno - CGDIN"`

	StatusColors map[string]string
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

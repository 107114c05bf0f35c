package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Remote RemoteConfig `yaml:"remote"`
	Log    LogConfig    `yaml:"log"`
	CORS   CORSConfig   `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig holds settings of the local word store.
//
// Enabled is the explicit capability switch for the local path. When it is
// false (or no candidate location exists) the service runs remote-only.
type StoreConfig struct {
	Enabled          bool          `yaml:"enabled"            env:"STORE_ENABLED"            env-default:"true"`
	Driver           string        `yaml:"driver"             env:"STORE_DRIVER"             env-default:"sqlite"`
	Path             string        `yaml:"path"               env:"STORE_PATH"`
	DSN              string        `yaml:"dsn"                env:"STORE_DSN"`
	CandidatesRaw    string        `yaml:"candidates"         env:"STORE_CANDIDATES"         env-default:"data/mushaf.db,public/data/mushaf.db,../data/mushaf.db"`
	EditionID        int           `yaml:"edition_id"         env:"STORE_EDITION_ID"         env-default:"1"`
	MaxOpenConns     int           `yaml:"max_open_conns"     env:"STORE_MAX_OPEN_CONNS"     env-default:"4"`
	SummaryBatchWait time.Duration `yaml:"summary_batch_wait" env:"STORE_SUMMARY_BATCH_WAIT" env-default:"2ms"`

	// Candidates is parsed from CandidatesRaw during validation.
	Candidates []string `yaml:"-" env:"-"`
}

// RemoteConfig holds settings of the remote layout API.
type RemoteConfig struct {
	Enabled            bool          `yaml:"enabled"               env:"REMOTE_ENABLED"               env-default:"true"`
	BaseURL            string        `yaml:"base_url"              env:"REMOTE_BASE_URL"              env-default:"https://api.quran.com/api/v4"`
	MushafID           int           `yaml:"mushaf_id"             env:"REMOTE_MUSHAF_ID"             env-default:"1"`
	Timeout            time.Duration `yaml:"timeout"               env:"REMOTE_TIMEOUT"               env-default:"8s"`
	Retries            int           `yaml:"retries"               env:"REMOTE_RETRIES"               env-default:"1"`
	RetryDelay         time.Duration `yaml:"retry_delay"           env:"REMOTE_RETRY_DELAY"           env-default:"300ms"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"REMOTE_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

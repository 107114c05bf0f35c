package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Supported store drivers.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := c.Remote.validate(); err != nil {
		return fmt.Errorf("remote: %w", err)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	switch s.Driver {
	case DriverSQLite:
	case DriverPgx:
		if s.Enabled && s.DSN == "" {
			return fmt.Errorf("dsn is required for driver %q", DriverPgx)
		}
	default:
		return fmt.Errorf("unknown driver %q (want %q or %q)", s.Driver, DriverSQLite, DriverPgx)
	}
	if s.EditionID <= 0 {
		return fmt.Errorf("edition_id must be > 0 (got %d)", s.EditionID)
	}
	if s.MaxOpenConns <= 0 {
		return fmt.Errorf("max_open_conns must be > 0 (got %d)", s.MaxOpenConns)
	}
	if s.SummaryBatchWait < 0 {
		return fmt.Errorf("summary_batch_wait must be >= 0 (got %v)", s.SummaryBatchWait)
	}

	s.Candidates = ParseCandidates(s.CandidatesRaw)
	return nil
}

func (r *RemoteConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", r.BaseURL)
	}
	if r.MushafID <= 0 {
		return fmt.Errorf("mushaf_id must be > 0 (got %d)", r.MushafID)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", r.Timeout)
	}
	if r.Retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", r.Retries)
	}
	if r.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute must be >= 0 (got %d)", r.RateLimitPerMinute)
	}
	return nil
}

// ParseCandidates splits a comma-separated list of store locations,
// dropping blanks. An empty string returns a nil slice.
func ParseCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

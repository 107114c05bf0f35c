package wordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// Options configures how a Registry locates and opens stores.
type Options struct {
	// Driver is DriverSQLite (default) or DriverPgx.
	Driver string
	// DSN is the connection string used by DriverPgx when Open gets no path.
	DSN string
	// Candidates are probed in order when Open gets no path (sqlite only).
	// Relative entries are resolved against BaseDir.
	Candidates []string
	// BaseDir defaults to the process working directory.
	BaseDir      string
	MaxOpenConns int
}

// Registry owns the open store handles of a process. Opening the same
// resolved location twice returns the existing handle, so a handle lives until
// Close is called on the Registry (or the Store) at shutdown.
type Registry struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	handles map[string]*Store
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger, opts Options) *Registry {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 4
	}
	return &Registry{
		opts:    opts,
		log:     logger.With("adapter", "wordstore"),
		handles: make(map[string]*Store),
	}
}

// Open returns a read-only store. With an empty path the configured
// candidates (sqlite) or DSN (pgx) are used. A missing store yields an error
// wrapping domain.ErrStoreNotFound.
func (r *Registry) Open(ctx context.Context, path string) (*Store, error) {
	location, err := r.resolve(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.handles[location]; ok && !s.IsClosed() {
		return s, nil
	}

	var s *Store
	switch r.opts.Driver {
	case DriverPgx:
		s, err = openPgx(ctx, location, r.opts.MaxOpenConns)
	default:
		s, err = openSQLite(ctx, location, r.opts.MaxOpenConns)
	}
	if err != nil {
		return nil, err
	}

	r.handles[location] = s
	r.log.InfoContext(ctx, "word store opened",
		slog.String("driver", s.Driver()),
		slog.String("location", s.Location()),
	)

	return s, nil
}

// Len returns the number of live handles held by the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.handles {
		if !s.IsClosed() {
			n++
		}
	}
	return n
}

// Close closes every handle. Safe to call repeatedly.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for loc, s := range r.handles {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.handles, loc)
	}
	return errors.Join(errs...)
}

func (r *Registry) resolve(path string) (string, error) {
	if r.opts.Driver == DriverPgx {
		if path != "" {
			return path, nil
		}
		if r.opts.DSN == "" {
			return "", fmt.Errorf("no postgres dsn configured: %w", domain.ErrStoreNotFound)
		}
		return r.opts.DSN, nil
	}

	if path != "" {
		return absPath(path, r.opts.BaseDir)
	}
	return ResolveCandidate(r.opts.Candidates, r.opts.BaseDir)
}

// ResolveCandidate returns the absolute path of the first candidate that
// exists as a regular file. Relative candidates are joined to baseDir, which
// defaults to the working directory.
func ResolveCandidate(candidates []string, baseDir string) (string, error) {
	for _, c := range candidates {
		p, err := absPath(c, baseDir)
		if err != nil {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("none of %d candidate locations exist: %w", len(candidates), domain.ErrStoreNotFound)
}

func absPath(p, baseDir string) (string, error) {
	if !filepath.IsAbs(p) && baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Abs(p)
}

func openSQLite(ctx context.Context, path string, maxConns int) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, domain.ErrStoreNotFound)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", path, domain.ErrStoreNotFound)
	}

	db, err := sql.Open(DriverSQLite, readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, domain.ErrStoreNotFound)
	}
	db.SetMaxOpenConns(maxConns)

	return finishOpen(ctx, db, DriverSQLite, path)
}

func openPgx(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	db, err := sql.Open(DriverPgx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %v: %w", err, domain.ErrStoreNotFound)
	}
	db.SetMaxOpenConns(maxConns)

	return finishOpen(ctx, db, DriverPgx, dsn)
}

func finishOpen(ctx context.Context, db *sql.DB, driver, location string) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s store: %v: %w", driver, err, domain.ErrStoreNotFound)
	}

	s := newStore(db, driver, location)
	if err := s.checkSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// readOnlyDSN builds a SQLite URI that can neither create nor modify the file.
func readOnlyDSN(path string) string {
	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", "query_only(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}

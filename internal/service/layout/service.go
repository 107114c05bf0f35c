// Package layout serves assembled Mushaf pages from the local word store or
// the remote API, paired with the typography profile for the caller's width.
package layout

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

type wordsReader interface {
	GetPageWords(ctx context.Context, editionID, page int) ([]domain.WordRecord, error)
}

type summaryReader interface {
	GetPageSummary(ctx context.Context, editionID, page int) (*domain.PageSummary, error)
}

type pageFetcher interface {
	FetchPage(ctx context.Context, page int) (*domain.Page, error)
}

// Config holds the facade's defaults and remote policy.
type Config struct {
	EditionID     int
	RemoteTimeout time.Duration
	RemoteRetries int
	RetryDelay    time.Duration
}

// Option attaches an optional source to the Service.
type Option func(*Service)

// WithStore attaches the local word store. summaries may be nil, in which
// case the summary is computed from the page's own words.
func WithStore(words wordsReader, summaries summaryReader) Option {
	return func(s *Service) {
		s.words = words
		s.summaries = summaries
	}
}

// WithRemote attaches the remote page fetcher.
func WithRemote(remote pageFetcher) Option {
	return func(s *Service) {
		s.remote = remote
	}
}

// Service is the single entry point for page layouts.
type Service struct {
	log       *slog.Logger
	cfg       Config
	words     wordsReader
	summaries summaryReader
	remote    pageFetcher
}

// NewService creates a layout Service. Without WithStore every local request
// fails with domain.ErrStoreNotFound; without WithRemote every remote request
// fails with domain.ErrRemoteUnavailable.
func NewService(logger *slog.Logger, cfg Config, opts ...Option) *Service {
	if cfg.EditionID <= 0 {
		cfg.EditionID = 1
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = 8 * time.Second
	}
	if cfg.RemoteRetries < 0 {
		cfg.RemoteRetries = 0
	}

	s := &Service{
		log: logger.With("service", "layout"),
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LocalAvailable reports whether a local word store is attached.
func (s *Service) LocalAvailable() bool { return s.words != nil }

// RemoteAvailable reports whether a remote fetcher is attached.
func (s *Service) RemoteAvailable() bool { return s.remote != nil }

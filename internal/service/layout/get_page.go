package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
	"github.com/heartmarshall/mushaf-layout/internal/service/typography"
)

// GetPage returns the assembled page with its typography profile.
//
// The page number is validated before any source is touched. The chosen
// source is tried first; the other one is tried only when req.Fallback is
// set and the failure is a missing store (local) or an unavailable remote.
func (s *Service) GetPage(ctx context.Context, req PageRequest) (*domain.PageLayout, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bp, profile, err := typography.Resolve(req.Typography)
	if err != nil {
		return nil, err
	}

	page, source, err := s.loadPage(ctx, req)
	if err != nil {
		return nil, err
	}

	return &domain.PageLayout{
		Page:       page,
		Typography: profile,
		Breakpoint: bp,
		Source:     source,
	}, nil
}

func (s *Service) loadPage(ctx context.Context, req PageRequest) (*domain.Page, domain.Source, error) {
	primary, secondary := domain.SourceLocal, domain.SourceRemote
	if req.UseRemote {
		primary, secondary = secondary, primary
	}

	page, err := s.loadFrom(ctx, primary, req)
	if err == nil {
		return page, primary, nil
	}
	if !req.Fallback || !fallbackAllowed(primary, err) || ctx.Err() != nil {
		return nil, "", err
	}

	s.log.InfoContext(ctx, "falling back to other source",
		slog.Int("page", req.Page),
		slog.String("from", string(primary)),
		slog.String("to", string(secondary)),
		slog.String("reason", err.Error()),
	)

	page, fbErr := s.loadFrom(ctx, secondary, req)
	if fbErr != nil {
		return nil, "", fmt.Errorf("%s: %w; %s fallback: %w", primary, err, secondary, fbErr)
	}
	return page, secondary, nil
}

func fallbackAllowed(from domain.Source, err error) bool {
	switch from {
	case domain.SourceLocal:
		return errors.Is(err, domain.ErrStoreNotFound)
	case domain.SourceRemote:
		return errors.Is(err, domain.ErrRemoteUnavailable)
	}
	return false
}

func (s *Service) loadFrom(ctx context.Context, src domain.Source, req PageRequest) (*domain.Page, error) {
	if src == domain.SourceRemote {
		return s.loadRemote(ctx, req.Page)
	}
	return s.loadLocal(ctx, req)
}

func (s *Service) loadLocal(ctx context.Context, req PageRequest) (*domain.Page, error) {
	if s.words == nil {
		return nil, fmt.Errorf("local source disabled: %w", domain.ErrStoreNotFound)
	}

	edition := req.EditionID
	if edition == 0 {
		edition = s.cfg.EditionID
	}

	words, err := s.words.GetPageWords(ctx, edition, req.Page)
	if err != nil {
		return nil, fmt.Errorf("get page words: %w", err)
	}

	page, err := domain.AssemblePage(req.Page, words)
	if err != nil {
		if errors.Is(err, domain.ErrLayoutAnomaly) {
			s.log.ErrorContext(ctx, "local store returned an anomalous page",
				slog.Int("page", req.Page),
				slog.Int("edition", edition),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	if s.summaries != nil {
		sum, err := s.summaries.GetPageSummary(ctx, edition, req.Page)
		if err != nil {
			return nil, fmt.Errorf("get page summary: %w", err)
		}
		page.Summary = sum
	}

	if missing := page.MissingLines(); len(missing) > 0 {
		s.log.DebugContext(ctx, "page has empty lines",
			slog.Int("page", req.Page),
			slog.Any("lines", missing),
		)
	}

	return page, nil
}

// loadRemote calls the fetcher under one deadline covering every attempt.
// Only ErrRemoteUnavailable is retried.
func (s *Service) loadRemote(ctx context.Context, pageNum int) (*domain.Page, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("remote source disabled: %w", domain.ErrRemoteUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.cfg.RemoteRetries; attempt++ {
		if attempt > 0 {
			s.log.WarnContext(ctx, "remote fetch retry",
				slog.Int("page", pageNum),
				slog.Int("attempt", attempt),
				slog.String("reason", lastErr.Error()),
			)
			if !sleepCtx(ctx, s.cfg.RetryDelay) {
				break
			}
		}

		page, err := s.remote.FetchPage(ctx, pageNum)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrRemoteUnavailable) || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil && !errors.Is(lastErr, domain.ErrRemoteUnavailable) {
		return nil, fmt.Errorf("fetch page %d: %w: %w", pageNum, domain.ErrRemoteUnavailable, ctx.Err())
	}
	return nil, fmt.Errorf("fetch page %d: %w", pageNum, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

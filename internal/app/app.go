package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/provider/quranapi"
	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore"
	"github.com/heartmarshall/mushaf-layout/internal/config"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
	"github.com/heartmarshall/mushaf-layout/internal/service/layout"
	"github.com/heartmarshall/mushaf-layout/internal/transport/middleware"
	"github.com/heartmarshall/mushaf-layout/internal/transport/rest"
)

// App holds the wired components of a running service.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *wordstore.Registry
	store    *wordstore.Store
	layout   *layout.Service
	limiter  *middleware.RateLimiter
	handler  http.Handler
}

// Run is the application entry point. It loads configuration, wires the
// page sources and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}

// New wires the application. A missing local store is not fatal: the
// service then runs remote-only and says so in the log.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	var opts []layout.Option

	if cfg.Store.Enabled {
		a.registry = wordstore.NewRegistry(logger, wordstore.Options{
			Driver:       cfg.Store.Driver,
			DSN:          cfg.Store.DSN,
			Candidates:   cfg.Store.Candidates,
			MaxOpenConns: cfg.Store.MaxOpenConns,
		})

		store, err := a.registry.Open(ctx, cfg.Store.Path)
		switch {
		case err == nil:
			a.store = store
			batcher := wordstore.NewSummaryBatcher(store, cfg.Store.SummaryBatchWait)
			opts = append(opts, layout.WithStore(store, batcher))
		case errors.Is(err, domain.ErrStoreNotFound):
			logger.Warn("word store not found, local source disabled",
				slog.String("error", err.Error()),
			)
		default:
			return nil, fmt.Errorf("open word store: %w", err)
		}
	}

	if cfg.Remote.Enabled {
		opts = append(opts, layout.WithRemote(
			quranapi.NewProviderWithURL(cfg.Remote.BaseURL, cfg.Remote.MushafID, logger),
		))
	}

	if a.store == nil && !cfg.Remote.Enabled {
		a.Close()
		return nil, fmt.Errorf("no page source available: %w", domain.ErrStoreNotFound)
	}

	a.layout = layout.NewService(logger, layout.Config{
		EditionID:     cfg.Store.EditionID,
		RemoteTimeout: cfg.Remote.Timeout,
		RemoteRetries: cfg.Remote.Retries,
		RetryDelay:    cfg.Remote.RetryDelay,
	}, opts...)

	logger.Info("page sources ready",
		slog.Bool("local", a.layout.LocalAvailable()),
		slog.Bool("remote", a.layout.RemoteAvailable()),
	)

	a.limiter = middleware.NewRateLimiter(5 * time.Minute)
	a.handler = a.routes()
	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

func (a *App) routes() http.Handler {
	// Left as an untyped nil when the store is absent.
	var pinger interface{ Ping(context.Context) error }
	if a.store != nil {
		pinger = a.store
	}

	health := rest.NewHealthHandler(pinger, a.cfg.Remote.Enabled, BuildVersion())
	pages := rest.NewPagesHandler(a.layout, a.log)
	typo := rest.NewTypographyHandler()

	remoteLimit := a.limiter.LimitWhen(a.cfg.Remote.RateLimitPerMinute, rest.WantsRemote)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /api/v1/pages/{page}", remoteLimit(http.HandlerFunc(pages.GetPage)))
	mux.Handle("GET /api/v1/spreads/{page}", remoteLimit(http.HandlerFunc(pages.GetSpread)))
	mux.HandleFunc("GET /api/v1/typography", typo.Get)

	return middleware.Chain(
		middleware.Recovery(a.log),
		middleware.RequestID(),
		middleware.Logger(a.log),
		middleware.CORS(a.cfg.CORS),
	)(mux)
}

// Serve runs the HTTP server until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port)),
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Close releases the rate limiter and every store handle.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
		a.limiter = nil
	}
	if a.registry != nil {
		if err := a.registry.Close(); err != nil {
			a.log.Error("close word store", slog.String("error", err.Error()))
		}
	}
}

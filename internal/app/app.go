// Package app wires configuration, logging, metrics, services, and the
// HTTP router into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rm4health/internal/analytics"
	"rm4health/internal/config"
	"rm4health/internal/exporter"
	"rm4health/internal/infrastructure"
	"rm4health/internal/metrics"
	custommw "rm4health/internal/middleware"
	"rm4health/internal/records"
	"rm4health/internal/services"
	handlers "rm4health/internal/transport/http"
)

// Version is the service version reported by /api/health.
const Version = "1.0.0"

// Application is the main application container.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Analytics *services.AnalyticsService
}

// NewApplication loads configuration, builds all services, and
// assembles the router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	m := metrics.New()

	analyzer := analytics.NewAnalyzer(logger, analytics.Config{
		DurationRangeLow:       cfg.Analytics.DurationRangeLow,
		DurationRangeHigh:      cfg.Analytics.DurationRangeHigh,
		HighAdherenceThreshold: cfg.Analytics.HighAdherenceThreshold,
		LowAdherenceThreshold:  cfg.Analytics.LowAdherenceThreshold,
		PatternMinRecords:      cfg.Analytics.PatternMinRecords,
		TrendFieldCap:          cfg.Analytics.TrendFieldCap,
		TrendSampleCap:         cfg.Analytics.TrendSampleCap,
	})
	analyticsService := services.NewAnalyticsService(logger, analyzer, m)

	if cfg.Data.RecordsFile != "" {
		loader := records.NewLoader(logger)
		preloaded, err := loader.LoadFile(cfg.Data.RecordsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to preload records: %w", err)
		}
		analyticsService.ReplaceRecords(context.Background(), preloaded)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Analytics: analyticsService,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter assembles the middleware chain and mounts the handlers.
func (app *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(app.Logger))
	r.Use(custommw.Recoverer(app.Logger))
	r.Use(app.Metrics.Middleware)
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.StripSlashes)
	r.Use(custommw.Compress(5))
	r.Use(custommw.Timeout(app.Config.Server.RequestTimeout, app.Logger))

	if app.Config.Security.RateLimit.Enabled {
		rl := custommw.NewRateLimiter(
			app.Config.Security.RateLimit.RPS,
			app.Config.Security.RateLimit.Burst,
			app.Logger)
		r.Use(rl.Handler)
	}

	if app.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: app.Config.Security.AllowedOrigins,
			Logger:         app.Logger,
		}))
	}

	exp := exporter.NewReportExporter(app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/analytics", handlers.NewAnalyticsHandler(app.Analytics, exp, app.Logger).Routes())
		r.Mount("/records", handlers.NewRecordsHandler(app.Analytics, app.Logger).Routes())
		r.Mount("/health", handlers.NewHealthHandler(app.Analytics, Version).Routes())
	})

	r.Handle("/metrics", promhttp.HandlerFor(app.Metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		app.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.Logger.Info("server stopped")
	return nil
}

// Shutdown stops the server. Used by tests; Run handles signals itself.
func (app *Application) Shutdown(ctx context.Context) error {
	return app.Server.Shutdown(ctx)
}

// Package app wires configuration, services, transport and
// observability into a runnable dashboard server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/config"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/dataprocessing"
	apierrors "github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/errors"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/infrastructure"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/middleware"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/services"
	transporthttp "github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/transport/http"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/websocket"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts/domain"
)

// Application holds the assembled dashboard server.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger

	dataService   *services.DataService
	healthService *services.HealthService
	summarizer    *dataprocessing.Summarizer
	hub           *websocket.Hub
	otel          *infrastructure.OTelProviders
	metrics       *infrastructure.DashboardMetrics

	staticFS fs.FS
	server   *http.Server
}

// Option customizes application assembly.
type Option func(*Application)

// WithStaticFS serves the embedded dashboard page from fsys.
func WithStaticFS(fsys fs.FS) Option {
	return func(a *Application) { a.staticFS = fsys }
}

// New assembles the application from configuration.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	var metrics *infrastructure.DashboardMetrics
	if otelProviders.Meter != nil {
		metrics, err = infrastructure.CreateDashboardMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	}

	dataDir := cfg.GetDataDir()
	app := &Application{
		cfg:           cfg,
		logger:        logger,
		dataService:   services.NewDataService(dataDir, logger, metrics),
		healthService: services.NewHealthService(dataDir, logger),
		summarizer:    dataprocessing.NewSummarizer(logger),
		hub:           websocket.NewHub(logger),
		otel:          otelProviders,
		metrics:       metrics,
	}

	for _, opt := range opts {
		opt(app)
	}

	// Push a reload notice to connected dashboards.
	app.dataService.OnReload(func(dataset *domain.Dataset) {
		app.hub.NotifyDataReloaded(dataset.ID, len(dataset.Sites))
	})

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.buildRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// DataService exposes the data layer for CLI subcommands.
func (a *Application) DataService() *services.DataService { return a.dataService }

// Summarizer exposes the aggregation layer for CLI subcommands.
func (a *Application) Summarizer() *dataprocessing.Summarizer { return a.summarizer }

// Logger exposes the configured logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

func (a *Application) buildRouter() chi.Router {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.logger)

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.SecureHeaders)
	if a.cfg.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: a.cfg.Security.AllowedOrigins,
		}))
	}
	if a.cfg.Security.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			a.cfg.Security.RateLimit.RPS, a.cfg.Security.RateLimit.Burst, a.logger)
		r.Use(rateLimiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dataHandler := transporthttp.NewDataHandler(a.dataService, a.summarizer, a.logger)
	exportHandler := transporthttp.NewExportHandler(a.dataService, a.summarizer, a.logger)
	healthHandler := transporthttp.NewHealthHandler(a.healthService, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", dataHandler.Routes())
		r.Mount("/download", exportHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
	})

	r.Get("/ws", websocket.Handler(a.hub, a.cfg.WebSocket, a.logger))

	if a.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.otel.PrometheusHTTP)
	}

	if a.staticFS != nil {
		r.Handle("/*", http.FileServer(http.FS(a.staticFS)))
	}

	return r
}

// Run starts the server and blocks until the context is cancelled or
// an interrupt arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.hub.Start()

	// Warm the dataset cache so the first page load is fast. Problems
	// are reported in the dataset itself, not fatal here.
	if _, err := a.dataService.Load(ctx); err != nil {
		a.logger.WarnContext(ctx, "initial dataset load failed",
			slog.String("error", err.Error()))
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("data_dir", a.cfg.GetDataDir()))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	return a.Shutdown()
}

// Shutdown stops the server, hub and telemetry within the configured
// shutdown timeout.
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	a.hub.Shutdown()

	if err := a.otel.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}

	infrastructure.CloseLogFile()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.logger.Info("shutdown complete")
	return nil
}

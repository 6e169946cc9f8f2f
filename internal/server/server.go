package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/worldcup-sim/internal/app/forecasts"
	"github.com/preston-bernstein/worldcup-sim/internal/batcher"
	"github.com/preston-bernstein/worldcup-sim/internal/config"
	httpserver "github.com/preston-bernstein/worldcup-sim/internal/http"
	"github.com/preston-bernstein/worldcup-sim/internal/http/handlers"
	"github.com/preston-bernstein/worldcup-sim/internal/http/middleware"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
	"github.com/preston-bernstein/worldcup-sim/internal/metrics"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	forecasts     *forecasts.Service
	storeClose    func() error
	httpServer    httpServer
	metricsServer httpServer
	batcher       Batcher
	metricsStop   func(context.Context) error
}

// New constructs a server with default provider, store and batcher wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	provider, name := newProviderFactory(logger).build(cfg)
	return newServerWithProvider(cfg, logger, provider, name)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.TeamProvider, providerName string) *Server {
	return newServerWithMetrics(cfg, logger, provider, providerName, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.TeamProvider, providerName string, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	ctx := context.Background()
	forecastStore, storeClose := buildStore(ctx, cfg, logger)
	svc := forecasts.NewService(forecastStore)
	snaps := buildSnapshots(cfg)
	seedForecast(ctx, svc, snaps.store, logger)

	b := batcher.New(batcher.Deps{
		Provider:     provider,
		ProviderName: providerName,
		Runner:       newBatchRunner(cfg, logger),
		Forecasts:    svc,
		Writer:       snaps.writer,
		Logger:       logger,
		Metrics:      recorder,
		Interval:     cfg.Batch.Interval,
	})
	httpSrv := buildHTTPServer(cfg, svc, snaps, logger, recorder, b)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		forecasts:     svc,
		storeClose:    storeClose,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		batcher:       b,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *forecasts.Service, httpSrv httpServer, b Batcher) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		forecasts:  svc,
		httpServer: httpSrv,
		batcher:    b,
	}
}

func buildHTTPServer(cfg config.Config, svc *forecasts.Service, snaps snapshotComponents, logger *slog.Logger, recorder *metrics.Recorder, b Batcher) httpServer {
	var statusFn func() batcher.Status
	if b != nil {
		statusFn = b.Status
	}

	handler := handlers.NewHandler(svc, snaps.store, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(b, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the batcher and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.batcher.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.batcher.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop batcher", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.storeClose != nil {
		if err := s.storeClose(); err != nil && s.logger != nil {
			s.logger.Warn("forecast store close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}


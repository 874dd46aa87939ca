package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/kibitz/internal/adapters/engine"
	"github.com/okian/kibitz/internal/adapters/http/api"
	"github.com/okian/kibitz/internal/adapters/narrator"
	app "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/config"
	"github.com/okian/kibitz/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants. The write timeout is derived from the
// analysis timeout at runtime since a full-report request can hold the
// connection for minutes while the engine and narrator respond.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	writeTimeoutSlack = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Get().Error(context.Background(), "logger sync failed", logger.Error(err))
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithEngineTimeout(time.Duration(cfg.EngineTimeoutSec) * time.Second),
		app.WithAnalysisTimeout(time.Duration(cfg.AnalysisTimeoutSec) * time.Second),
	}

	if cfg.EngineConfigured() {
		// The client's transport timeout is the ceiling; the service applies
		// the shorter quick-analysis bound per call.
		opts = append(opts, app.WithEngine(engine.NewClient(
			cfg.EngineURL,
			engine.WithTimeout(time.Duration(cfg.AnalysisTimeoutSec)*time.Second),
		)))
		log.Info(ctx, "engine collaborator configured", logger.String("engine_url", cfg.EngineURL))
	} else {
		log.Warn(ctx, "engine collaborator not configured; analysis endpoints will degrade")
	}

	if cfg.GeminiConfigured() {
		n, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			os.Stderr.WriteString("failed to create narrator client: " + err.Error() + "\n")
			return
		}
		opts = append(opts, app.WithNarrator(n))
		log.Info(ctx, "narrator collaborator configured", logger.String("model", cfg.GeminiModel))
	} else {
		log.Warn(ctx, "narrator collaborator not configured; reports will be unavailable")
	}

	svc := app.New(opts...)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      time.Duration(cfg.AnalysisTimeoutSec)*time.Second + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/authui/internal"
	"github.com/DukeRupert/authui/internal/authform"
	"github.com/DukeRupert/authui/internal/handler"
	"github.com/DukeRupert/authui/internal/metrics"
	"github.com/DukeRupert/authui/internal/middleware"
	"github.com/DukeRupert/authui/web"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize template renderer. TEMPLATES_DIR switches from the embedded
	// templates to a directory on disk.
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:           web.Templates(),
		TemplatesDir: cfg.TemplatesDir,
		Logger:       logger,
		IsDev:        cfg.IsDev() && cfg.TemplatesDir != "",
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	clock := clockwork.NewRealClock()
	backend := authform.NewSimulatedBackend(clock, cfg.SubmitDelay, logger)

	// Initialize handlers
	isSecure := !cfg.IsDev()
	limits := handler.InstanceLimits{Size: cfg.MaxLiveForms, TTL: cfg.FormTTL}

	authHandler := handler.NewAuthHandler(backend, renderer, logger, isSecure, limits)
	defer authHandler.Shutdown()

	successHandler := handler.NewSuccessHandler(clock, handler.SuccessTiming{
		Tick:          cfg.ProgressTick,
		RedirectAfter: cfg.RedirectAfter,
		Target:        cfg.SuccessRedirect,
	}, renderer, logger, isSecure, limits)
	defer successHandler.Shutdown()

	// Initialize middleware
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Auth screens
	authHandler.RegisterRoutes(mux)
	successHandler.RegisterRoutes(mux)

	// Everything else, including the post-login target until it exists
	mux.Handle("/", handler.NotFoundPage(renderer, logger))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           middleware.Stack(loggingMw.Handler, metrics.Middleware)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

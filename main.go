package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/tripweave/tripweave/app/db"
	appLogger "github.com/tripweave/tripweave/app/logger"
	"github.com/tripweave/tripweave/app/observability/metrics"
	"github.com/tripweave/tripweave/app/tracer"
	"github.com/tripweave/tripweave/config"
	"github.com/tripweave/tripweave/internal/container"
	"github.com/tripweave/tripweave/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Migrations are best-effort: without a reachable database the API still
	// serves, answering 503 on store-backed routes.
	if dbConfig, err := database.NewDatabaseConfig(&cfg, logger); err != nil {
		logger.Warn("Failed to generate database config", slog.Any("error", err))
	} else if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Warn("Failed to run database migrations", slog.Any("error", err))
	}

	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	deps, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()

	if deps.Pool != nil && !database.WaitForDB(ctx, deps.Pool, logger) {
		logger.Warn("Database not ready after waiting, continuing in degraded mode")
	}

	mainRouter := router.SetupRouter(&router.Config{
		TripHandler:       deps.TripHandler,
		JourneyHandler:    deps.JourneyHandler,
		GuideHandler:      deps.GuideHandler,
		InvitationHandler: deps.InvitationHandler,
		AssistantHandler:  deps.AssistantHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	listener, address, err := listenWithRetry(cfg.Server.HTTPPort, cfg.Server.PortRetries, logger)
	if err != nil {
		logger.Error("Failed to bind HTTP listener", slog.Any("error", err))
		os.Exit(1)
	}
	srv.Addr = address

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", address))
		err := srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// listenWithRetry binds the configured port, walking forward through the next
// ports when the address is already in use.
func listenWithRetry(httpPort string, retries int, logger *slog.Logger) (net.Listener, string, error) {
	port, err := strconv.Atoi(httpPort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid HTTP port %q: %w", httpPort, err)
	}
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		address := fmt.Sprintf(":%d", port+attempt)
		listener, err := net.Listen("tcp", address)
		if err == nil {
			if attempt > 0 {
				logger.Warn("Configured port busy, using fallback",
					slog.String("configured", httpPort),
					slog.String("address", address))
			}
			return listener, address, nil
		}
		lastErr = err
		logger.Warn("Port unavailable, trying next", slog.String("address", address), slog.Any("error", err))
	}
	return nil, "", fmt.Errorf("no free port after %d attempts: %w", retries, lastErr)
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}

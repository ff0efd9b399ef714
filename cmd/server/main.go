package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lendhub/internal/api"
	"lendhub/internal/config"
	"lendhub/internal/database"
	"lendhub/internal/domain"
	"lendhub/internal/events"
	"lendhub/internal/export"
	"lendhub/internal/logging"
	"lendhub/internal/metrics"
	"lendhub/internal/repository"
	"lendhub/internal/service"
	"lendhub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("database initialization failed")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go serveMetrics(cfg.Monitoring.PrometheusPort, logger)
	}

	limiter := initRateLimiter(ctx, cfg, logger)

	report := export.NewReport(cfg.Exports.Path)
	reportWorker := worker.NewReportWorker(db, report, worker.RetryPolicy{}, logger)
	go reportWorker.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, reportWorker)

	bookingService := service.NewBookingService(db, eventBus, logger)
	userService := service.NewUserService(db, logger)
	itemService := service.NewItemService(db, bookingService, logger)
	requestService := service.NewRequestService(db, logger)

	server := api.NewHTTPServer(cfg, userService, itemService, requestService, bookingService, db, report, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSecs)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	return cfg, &logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logger.Error().Err(err).Msg("failed to create database directory")
			return err
		}
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create export directory")
		return err
	}
	return nil
}

// initRateLimiter prefers redis when configured, with an in-memory fallback
// behind a failover wrapper so a redis outage degrades instead of failing.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.RateLimiter {
	fallback := repository.NewMemoryRateLimiter()
	if !cfg.Redis.Enabled {
		return fallback
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable")
	}

	return repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(client), fallback, logger)
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

// subscribeBookingEvents refreshes the on-disk report whenever a booking
// changes state.
func subscribeBookingEvents(bus *events.EventBus, reportWorker *worker.ReportWorker) {
	refresh := func(*events.Event) error {
		reportWorker.EnqueueRefresh()
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, refresh)
	bus.Subscribe(events.EventBookingApproved, refresh)
	bus.Subscribe(events.EventBookingRejected, refresh)
	bus.Subscribe(events.EventBookingCancelled, refresh)
}

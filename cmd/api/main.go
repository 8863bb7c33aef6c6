package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"truckrental/internal/api"
	"truckrental/internal/auth"
	"truckrental/internal/config"
	"truckrental/internal/database"
	"truckrental/internal/dispatch"
	"truckrental/internal/domain"
	"truckrental/internal/events"
	"truckrental/internal/logging"
	"truckrental/internal/metrics"
	"truckrental/internal/models"
	"truckrental/internal/repository"
	"truckrental/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
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
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.Open(cfg.Database, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}
	limiter := initLimiter(redisClient, &logger)

	eventBus := events.NewEventBus()
	eventBus.SubscribeBookingLog(&logger)

	tokens := auth.NewTokenIssuer(cfg.API.Auth.JWTSecret, cfg.API.Auth.TokenTTL)
	policy := dispatch.Policy{
		PreventDoubleBooking: cfg.Dispatch.PreventDoubleBooking,
		EnforceAvailableDays: cfg.Dispatch.EnforceAvailableDays,
	}

	bookingService := service.NewBookingService(db, db, eventBus, policy, logging.Component(&logger, "booking"))
	driverService := service.NewDriverService(db, logging.Component(&logger, "driver"))
	userService := service.NewUserService(db, limiter, tokens, cfg.API.LoginLimit, logging.Component(&logger, "user"))
	reportService := service.NewReportService(db, db, db, logging.Component(&logger, "report"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := userService.EnsureAdmin(ctx, cfg.API.Auth.BootstrapAdmin); err != nil {
		logger.Error().Err(err).Msg("bootstrap admin")
		return err
	}
	if err := seedDrivers(ctx, cfg.Seed.Path, driverService, &logger); err != nil {
		return err
	}

	httpServer := api.NewHTTPServer(cfg.API, api.Services{
		Bookings: bookingService,
		Drivers:  driverService,
		Users:    userService,
		Reports:  reportService,
		Health:   db,
	}, tokens, &logger)

	startMetrics(ctx, cfg, &logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(db, cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// seedDrivers loads the driver seed file into an empty drivers table.
func seedDrivers(ctx context.Context, path string, drivers *service.DriverService, logger *zerolog.Logger) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("seed_path", path).Msg("seed file not found, skipping")
			return nil
		}
		logger.Error().Err(err).Str("seed_path", path).Msg("read seed")
		return err
	}

	var seed struct {
		Drivers []models.DriverInput `yaml:"drivers"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("seed_path", path).Msg("parse seed")
		return err
	}

	created, err := drivers.SeedDrivers(ctx, seed.Drivers)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", path).Msg("seed drivers")
		return err
	}
	if created > 0 {
		logger.Info().Int("drivers", created).Msg("drivers seeded")
	}
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initLimiter(client *redis.Client, logger *zerolog.Logger) domain.AttemptLimiter {
	memory := repository.NewMemoryAttemptLimiter()
	if client == nil {
		return memory
	}
	return repository.NewFailoverAttemptLimiter(repository.NewRedisAttemptLimiter(client), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

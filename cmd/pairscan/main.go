package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/celebrum-pairs/internal/cache"
	"github.com/irfndi/celebrum-pairs/internal/config"
	"github.com/irfndi/celebrum-pairs/internal/database"
	"github.com/irfndi/celebrum-pairs/internal/logging"
	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/services"
	"github.com/irfndi/celebrum-pairs/internal/telemetry"
)

// main runs one discovery pass and exits non-zero when the run fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Pair discovery failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, connects the price store and runs the engine once.
func run(ctx context.Context) error {
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, shutdownLogs := newLogger(cfg)
	defer shutdownLogs()
	serviceLogger := logging.NewLogrusLogger(cfg.LogLevel)

	logger.LogStartup(telemetry.ServiceName, telemetry.ServiceVersion, cfg.Environment)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}()

	recovery := services.NewErrorRecoveryManager(serviceLogger)

	db, err := database.NewPostgresConnectionWithRetry(ctx, &cfg.Database, recovery)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var redisClient *database.RedisClient
	if cfg.Data.UseCache && cfg.Redis.Enabled {
		redisClient, err = database.NewRedisConnectionWithRetry(ctx, cfg.Redis, recovery)
		if err != nil {
			// Continue without cache on Redis connection issues.
			logger.WithError(err).Warn("Failed to connect to Redis - continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	source, err := newPriceSource(cfg, db, redisClient, serviceLogger)
	if err != nil {
		return err
	}

	since := cfg.Data.Since(time.Now())
	loadStart := time.Now()
	var observations []models.PriceObservation
	err = recovery.ExecuteWithRetry(ctx, services.RetryPriceLoad, func() error {
		var loadErr error
		observations, loadErr = source.LoadObservations(ctx, cfg.Data.Symbols, since)
		return loadErr
	})
	if err != nil {
		return fmt.Errorf("failed to load price table: %w", err)
	}
	logger.LogDatabaseOperation("load_observations", "price_bars", time.Since(loadStart).Milliseconds(), int64(len(observations)))

	discovery := services.NewPairDiscoveryService(cfg.Pairs, serviceLogger)
	report, err := discovery.RunForSymbols(ctx, observations, cfg.Data.Symbols)
	if err != nil {
		return err
	}

	logger.LogRunSummary(report.RunID, summarize(report))
	for _, pair := range report.Shortlist {
		logger.WithPair(pair.Symbol1, pair.Symbol2).Info("Shortlisted pair",
			"rank", pair.ShortlistRank,
			"correlation", pair.Correlation,
			"p_value", floatOrNil(pair.PValue),
			"adf_p_value", floatOrNil(pair.Stationarity.PValue),
			"is_stationary", pair.Stationarity.IsStationary,
		)
	}

	logger.LogShutdown(telemetry.ServiceName, "completed")
	return nil
}

// newLogger builds the application logger, exporting over OTLP when enabled.
func newLogger(cfg *config.Config) (*logging.StandardLogger, func()) {
	if !cfg.Telemetry.Enabled || !cfg.Telemetry.OTLPLogsEnabled {
		return logging.NewStandardLogger(cfg.LogLevel, cfg.Environment), func() {}
	}

	logger, otlpLogger, err := logging.NewStandardOTLPLogger(logging.OTLPConfig{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
	})
	if err != nil {
		logger.WithError(err).Warn("OTLP log export disabled")
		return logger, func() {}
	}
	return logger, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otlpLogger.Shutdown(ctx)
	}
}

// newPriceSource wraps the Postgres repository with the Redis cache when one
// is connected.
func newPriceSource(cfg *config.Config, db *database.PostgresDB, redisClient *database.RedisClient, logger *logrus.Logger) (database.PriceSource, error) {
	repo := database.NewPriceRepository(db, cfg.Data.Timeframe)
	if redisClient == nil || redisClient.Client == nil {
		return repo, nil
	}

	ttl, err := cfg.Data.CacheTTLDuration()
	if err != nil {
		return nil, err
	}
	priceCache := cache.NewRedisPriceCache(redisClient.Client, ttl, logger)
	return cache.NewCachedPriceSource(repo, priceCache, cfg.Data.Timeframe, logger), nil
}

// summarize flattens a report into log fields.
func summarize(report *models.DiscoveryReport) map[string]interface{} {
	failed := 0
	for _, result := range report.CointegrationTests {
		if result.Failed() {
			failed++
		}
	}
	summary := map[string]interface{}{
		"symbols":        len(report.Symbols),
		"candidates":     len(report.Candidates),
		"tested":         len(report.CointegrationTests),
		"failed_tests":   failed,
		"shortlisted":    len(report.Shortlist),
		"feature_frames": len(report.FeatureFrames),
		"duration_ms":    report.Duration.Milliseconds(),
	}
	if len(report.Shortlist) > 0 {
		top := report.Shortlist[0]
		summary["top_pair"] = top.Key()
	}
	return summary
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

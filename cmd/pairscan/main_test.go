package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/celebrum-pairs/internal/cache"
	"github.com/irfndi/celebrum-pairs/internal/config"
	"github.com/irfndi/celebrum-pairs/internal/database"
	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/services"
	"github.com/irfndi/celebrum-pairs/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		LogLevel:    "error",
		Pairs:       config.DefaultPairsConfig(),
		Data: config.DataConfig{
			LookbackDays: 365,
			Timeframe:    "1d",
			CacheTTL:     "10m",
			UseCache:     true,
		},
	}
}

func TestNewPriceSource(t *testing.T) {
	cfg := testConfig()

	t.Run("without redis", func(t *testing.T) {
		source, err := newPriceSource(cfg, nil, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &database.PriceRepository{}, source)
	})

	t.Run("with redis", func(t *testing.T) {
		_, client := testutil.NewTestRedis(t)
		source, err := newPriceSource(cfg, nil, &database.RedisClient{Client: client}, nil)
		require.NoError(t, err)
		assert.IsType(t, &cache.CachedPriceSource{}, source)
	})

	t.Run("invalid ttl", func(t *testing.T) {
		_, client := testutil.NewTestRedis(t)
		bad := testConfig()
		bad.Data.CacheTTL = "later"
		_, err := newPriceSource(bad, nil, &database.RedisClient{Client: client}, nil)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()
	logger, shutdown := newLogger(cfg)
	require.NotNil(t, logger)
	shutdown()

	cfg.Telemetry.Enabled = true
	cfg.Telemetry.OTLPLogsEnabled = true
	cfg.Telemetry.OTLPEndpoint = "not a url"
	logger, shutdown = newLogger(cfg)
	require.NotNil(t, logger)
	shutdown()
}

func TestSummarize(t *testing.T) {
	cfg := config.DefaultPairsConfig()
	cfg.Workers = 1
	service := services.NewPairDiscoveryService(cfg, nil)

	report, err := service.Run(context.Background(), testutil.ScenarioObservations(200))
	require.NoError(t, err)

	summary := summarize(report)
	assert.Equal(t, 3, summary["symbols"])
	assert.Equal(t, 1, summary["candidates"])
	assert.Equal(t, 1, summary["tested"])
	assert.Equal(t, 0, summary["failed_tests"])
	assert.Equal(t, 1, summary["shortlisted"])
	assert.Equal(t, 1, summary["feature_frames"])
	assert.Equal(t, "X/Y", summary["top_pair"])
}

func TestSummarize_Empty(t *testing.T) {
	failure := models.ErrMsgInsufficientDataPoints
	report := &models.DiscoveryReport{
		Symbols:  []string{"AAA", "BBB"},
		Duration: 1500 * time.Millisecond,
		CointegrationTests: []models.CointegrationResult{
			{Error: &failure},
		},
	}

	summary := summarize(report)
	assert.Equal(t, 1, summary["failed_tests"])
	assert.Equal(t, int64(1500), summary["duration_ms"])
	assert.NotContains(t, summary, "top_pair")
}

func TestFloatOrNil(t *testing.T) {
	assert.Nil(t, floatOrNil(nil))
	assert.Equal(t, 0.5, floatOrNil(models.Float64Ptr(0.5)))
}

package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/irfndi/celebrum-pairs/internal/utils"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Pairs       PairsConfig     `mapstructure:"pairs"`
	Data        DataConfig      `mapstructure:"data"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig controls trace and log export.
type TelemetryConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"service_name"`
	TraceExporter   string  `mapstructure:"trace_exporter"` // "stdout", "otlp" or "none"
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPLogsEnabled bool    `mapstructure:"otlp_logs_enabled"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
}

// PairsConfig is the tuning surface of the pair discovery engine.
type PairsConfig struct {
	CorrelationThreshold           float64 `mapstructure:"correlation_threshold"`
	CointegrationPValueThreshold   float64 `mapstructure:"cointegration_pvalue_threshold"`
	StationarityPValueThreshold    float64 `mapstructure:"stationarity_pvalue_threshold"`
	MinDataPoints                  int     `mapstructure:"min_data_points"`
	MinCorrelationForCointegration float64 `mapstructure:"min_correlation_for_cointegration"`
	UseCorrelationPrefilter        bool    `mapstructure:"use_correlation_prefilter"`
	SpreadMethod                   string  `mapstructure:"spread_method"`
	CorrelationMethod              string  `mapstructure:"correlation_method"`
	MaxPairs                       int     `mapstructure:"max_pairs"`
	RequireStationarity            bool    `mapstructure:"require_stationarity"`
	Workers                        int     `mapstructure:"workers"`
	Verbose                        bool    `mapstructure:"verbose"`
}

// DataConfig describes which price history is loaded for a run.
type DataConfig struct {
	Symbols      []string `mapstructure:"symbols"`
	LookbackDays int      `mapstructure:"lookback_days"`
	Timeframe    string   `mapstructure:"timeframe"`
	CacheTTL     string   `mapstructure:"cache_ttl"`
	UseCache     bool     `mapstructure:"use_cache"`
}

// minADFPoints is the smallest sample the stationarity test accepts.
const minADFPoints = 10

// DefaultPairsConfig returns the engine defaults without reading viper.
func DefaultPairsConfig() PairsConfig {
	return PairsConfig{
		CorrelationThreshold:           0.8,
		CointegrationPValueThreshold:   0.05,
		StationarityPValueThreshold:    0.05,
		MinDataPoints:                  100,
		MinCorrelationForCointegration: 0.5,
		UseCorrelationPrefilter:        false,
		SpreadMethod:                   "log_difference",
		CorrelationMethod:              "pearson",
		MaxPairs:                       50,
		RequireStationarity:            false,
		Workers:                        runtime.NumCPU(),
		Verbose:                        false,
	}
}

// Validate rejects settings that would invalidate a whole run.
func (c PairsConfig) Validate() error {
	// Range checks are written so that NaN fails them.
	if !(c.CorrelationThreshold >= 0 && c.CorrelationThreshold <= 1) {
		return utils.NewFieldErrorf("correlation_threshold", "must be within [0, 1], got %v", c.CorrelationThreshold)
	}
	if !(c.CointegrationPValueThreshold > 0 && c.CointegrationPValueThreshold < 1) {
		return utils.NewFieldErrorf("cointegration_pvalue_threshold", "must be within (0, 1), got %v", c.CointegrationPValueThreshold)
	}
	if !(c.StationarityPValueThreshold > 0 && c.StationarityPValueThreshold < 1) {
		return utils.NewFieldErrorf("stationarity_pvalue_threshold", "must be within (0, 1), got %v", c.StationarityPValueThreshold)
	}
	if c.MinDataPoints < minADFPoints {
		return utils.NewFieldErrorf("min_data_points", "must be at least %d, got %d", minADFPoints, c.MinDataPoints)
	}
	if !(c.MinCorrelationForCointegration >= 0 && c.MinCorrelationForCointegration <= 1) {
		return utils.NewFieldErrorf("min_correlation_for_cointegration", "must be within [0, 1], got %v", c.MinCorrelationForCointegration)
	}
	if c.MaxPairs < 1 {
		return utils.NewFieldErrorf("max_pairs", "must be positive, got %d", c.MaxPairs)
	}
	if c.Workers < 0 {
		return utils.NewFieldErrorf("workers", "must not be negative, got %d", c.Workers)
	}
	switch c.SpreadMethod {
	case "", "log_difference", "log_ratio":
	default:
		return utils.NewFieldErrorf("spread_method", "unknown value %q", c.SpreadMethod)
	}
	switch c.CorrelationMethod {
	case "", "pearson", "spearman", "kendall":
	default:
		return utils.NewFieldErrorf("correlation_method", "unknown value %q", c.CorrelationMethod)
	}
	return nil
}

// CacheTTLDuration parses CacheTTL, falling back to 15 minutes when unset.
func (d DataConfig) CacheTTLDuration() (time.Duration, error) {
	if d.CacheTTL == "" {
		return 15 * time.Minute, nil
	}
	ttl, err := time.ParseDuration(d.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl: %w", err)
	}
	return ttl, nil
}

// Since returns the start of the lookback window ending at now.
func (d DataConfig) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -d.LookbackDays)
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Data.LookbackDays <= 0 {
		return nil, fmt.Errorf("data.lookback_days must be positive, got %d", config.Data.LookbackDays)
	}
	if _, err := config.Data.CacheTTLDuration(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Set database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "celebrum_ai")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", "300s")
	viper.SetDefault("database.conn_max_idle_time", "60s")

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.service_name", "celebrum-pairs")
	viper.SetDefault("telemetry.trace_exporter", "stdout")
	viper.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	viper.SetDefault("telemetry.otlp_logs_enabled", false)
	viper.SetDefault("telemetry.sample_ratio", 1.0)

	// Pair discovery
	pairs := DefaultPairsConfig()
	viper.SetDefault("pairs.correlation_threshold", pairs.CorrelationThreshold)
	viper.SetDefault("pairs.cointegration_pvalue_threshold", pairs.CointegrationPValueThreshold)
	viper.SetDefault("pairs.stationarity_pvalue_threshold", pairs.StationarityPValueThreshold)
	viper.SetDefault("pairs.min_data_points", pairs.MinDataPoints)
	viper.SetDefault("pairs.min_correlation_for_cointegration", pairs.MinCorrelationForCointegration)
	viper.SetDefault("pairs.use_correlation_prefilter", pairs.UseCorrelationPrefilter)
	viper.SetDefault("pairs.spread_method", pairs.SpreadMethod)
	viper.SetDefault("pairs.correlation_method", pairs.CorrelationMethod)
	viper.SetDefault("pairs.max_pairs", pairs.MaxPairs)
	viper.SetDefault("pairs.require_stationarity", pairs.RequireStationarity)
	viper.SetDefault("pairs.workers", pairs.Workers)
	viper.SetDefault("pairs.verbose", pairs.Verbose)

	// Price data
	viper.SetDefault("data.symbols", []string{})
	viper.SetDefault("data.lookback_days", 365)
	viper.SetDefault("data.timeframe", "1d")
	viper.SetDefault("data.cache_ttl", "15m")
	viper.SetDefault("data.use_cache", true)
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/celebrum-pairs/internal/config"
)

type PostgresDB struct {
	Pool *pgxpool.Pool
}

// BuildDSN returns DatabaseURL when set, otherwise a keyword/value DSN
// assembled from the individual settings.
func BuildDSN(cfg *config.DatabaseConfig) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

// ParsePoolConfig builds the pgxpool configuration with query tracing
// enabled. Invalid duration strings are ignored.
func ParsePoolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		poolConfig.MaxConnLifetime = d
	}
	if d, err := time.ParseDuration(cfg.ConnMaxIdleTime); err == nil {
		poolConfig.MaxConnIdleTime = d
	}
	poolConfig.ConnConfig.Tracer = NewQueryTracer()

	return poolConfig, nil
}

func NewPostgresConnection(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresDB, error) {
	return NewPostgresConnectionWithRetry(ctx, cfg, nil)
}

// NewPostgresConnectionWithRetry pings the pool through retrier when one is given.
func NewPostgresConnectionWithRetry(ctx context.Context, cfg *config.DatabaseConfig, retrier RetryExecutor) (*PostgresDB, error) {
	poolConfig, err := ParsePoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ping := func() error { return pool.Ping(ctx) }
	if retrier != nil {
		err = retrier.ExecuteWithRetry(ctx, DatabaseConnectOperation, ping)
	} else {
		err = ping()
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")

	return &PostgresDB{Pool: pool}, nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		logrus.Info("PostgreSQL connection closed")
	}
}

func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is nil")
	}
	return db.Pool.Ping(ctx)
}

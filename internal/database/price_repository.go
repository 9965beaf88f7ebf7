package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/irfndi/celebrum-pairs/internal/models"
)

// PriceQuerier defines the database operations needed to load price bars.
type PriceQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PriceSource loads the long-format price table a discovery run consumes.
type PriceSource interface {
	LoadObservations(ctx context.Context, symbols []string, since time.Time) ([]models.PriceObservation, error)
}

const loadAllBarsQuery = `
		SELECT symbol, timestamp, close, volume
		FROM price_bars
		WHERE timeframe = $1 AND timestamp >= $2
		ORDER BY symbol, timestamp
	`

const loadSymbolBarsQuery = `
		SELECT symbol, timestamp, close, volume
		FROM price_bars
		WHERE timeframe = $1 AND timestamp >= $2 AND symbol = ANY($3)
		ORDER BY symbol, timestamp
	`

// PriceRepository reads historical bars from the price_bars table.
type PriceRepository struct {
	db        PriceQuerier
	timeframe string
}

// NewPriceRepository creates a repository over a Postgres pool.
func NewPriceRepository(db *PostgresDB, timeframe string) *PriceRepository {
	var querier PriceQuerier
	if db != nil && db.Pool != nil {
		querier = db.Pool
	}
	return NewPriceRepositoryWithQuerier(querier, timeframe)
}

// NewPriceRepositoryWithQuerier creates a repository with a custom querier (for tests).
func NewPriceRepositoryWithQuerier(db PriceQuerier, timeframe string) *PriceRepository {
	return &PriceRepository{
		db:        db,
		timeframe: timeframe,
	}
}

// LoadObservations returns every bar at or after since for symbols (all
// symbols when empty), ordered by symbol then timestamp. Closes are passed
// through unfiltered.
func (r *PriceRepository) LoadObservations(ctx context.Context, symbols []string, since time.Time) ([]models.PriceObservation, error) {
	if r.db == nil {
		return nil, fmt.Errorf("price database is not available")
	}

	var (
		rows pgx.Rows
		err  error
	)
	if len(symbols) == 0 {
		rows, err = r.db.Query(ctx, loadAllBarsQuery, r.timeframe, since)
	} else {
		rows, err = r.db.Query(ctx, loadSymbolBarsQuery, r.timeframe, since, symbols)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var observations []models.PriceObservation
	for rows.Next() {
		var (
			symbol  string
			ts      time.Time
			closePx decimal.Decimal
			volume  decimal.NullDecimal
		)
		if err := rows.Scan(&symbol, &ts, &closePx, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}

		obs := models.PriceObservation{
			Symbol:    symbol,
			Timestamp: ts,
			Close:     closePx.InexactFloat64(),
		}
		if volume.Valid {
			v := volume.Decimal.InexactFloat64()
			obs.Volume = &v
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price bars: %w", err)
	}

	return observations, nil
}

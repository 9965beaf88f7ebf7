package services

import (
	"fmt"
	"math"
	"time"

	"github.com/irfndi/celebrum-pairs/internal/models"
)

// PivotPrices reshapes long-format observations into a panel of natural-log
// closes. Non-positive or non-finite closes become absent cells.
func PivotPrices(observations []models.PriceObservation) (*models.PricePanel, error) {
	return pivot(observations, func(close float64) float64 {
		if !models.IsPresent(close) || close <= 0 {
			return math.NaN()
		}
		return math.Log(close)
	})
}

// PivotRawPrices reshapes observations into a panel of raw closes. Only
// non-finite closes become absent.
func PivotRawPrices(observations []models.PriceObservation) (*models.PricePanel, error) {
	return pivot(observations, func(close float64) float64 {
		if !models.IsPresent(close) {
			return math.NaN()
		}
		return close
	})
}

func pivot(observations []models.PriceObservation, transform func(float64) float64) (*models.PricePanel, error) {
	if len(observations) == 0 {
		return nil, ErrEmptyPriceTable
	}

	symbolSet := make(map[string]struct{})
	stampSet := make(map[int64]time.Time)
	for _, o := range observations {
		if o.Symbol == "" {
			return nil, fmt.Errorf("observation at %s has no symbol", o.Timestamp.Format(time.RFC3339))
		}
		symbolSet[o.Symbol] = struct{}{}
		key := o.Timestamp.UnixNano()
		if _, ok := stampSet[key]; !ok {
			stampSet[key] = o.Timestamp.UTC()
		}
	}

	symbols := make([]string, 0, len(symbolSet))
	for s := range symbolSet {
		symbols = append(symbols, s)
	}
	timestamps := make([]time.Time, 0, len(stampSet))
	for _, ts := range stampSet {
		timestamps = append(timestamps, ts)
	}

	panel := models.NewPricePanel(symbols, timestamps)
	rows := make(map[int64]int, len(panel.Timestamps))
	for i, ts := range panel.Timestamps {
		rows[ts.UnixNano()] = i
	}

	seen := make(map[string]map[int64]struct{}, len(symbols))
	for _, o := range observations {
		key := o.Timestamp.UnixNano()
		bySymbol, ok := seen[o.Symbol]
		if !ok {
			bySymbol = make(map[int64]struct{})
			seen[o.Symbol] = bySymbol
		}
		if _, dup := bySymbol[key]; dup {
			return nil, fmt.Errorf("%w: %s at %s", ErrDuplicateObservation, o.Symbol, o.Timestamp.UTC().Format(time.RFC3339))
		}
		bySymbol[key] = struct{}{}

		panel.Values[rows[key]][panel.SymbolIndex(o.Symbol)] = transform(o.Close)
	}

	return panel, nil
}

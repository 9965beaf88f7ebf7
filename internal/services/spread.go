package services

import (
	"math"
	"time"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/stats"
)

// CalculateSpread combines two aligned raw price series into a spread.
// Points with a non-positive or non-finite price are dropped, as are
// timestamps that do not strictly increase. The result may be empty.
func CalculateSpread(symbol1, symbol2 string, timestamps []time.Time, p1, p2 []float64, method models.SpreadMethod) models.SpreadSeries {
	if method == "" {
		method = models.SpreadLogDifference
	}
	series := models.SpreadSeries{
		Symbol1: symbol1,
		Symbol2: symbol2,
		Method:  method,
		Points:  make([]models.PricePoint, 0, len(timestamps)),
	}

	n := len(timestamps)
	if len(p1) < n {
		n = len(p1)
	}
	if len(p2) < n {
		n = len(p2)
	}

	for i := 0; i < n; i++ {
		a, b := p1[i], p2[i]
		if !models.IsPresent(a) || !models.IsPresent(b) || a <= 0 || b <= 0 {
			continue
		}
		var value float64
		switch method {
		case models.SpreadLogRatio:
			value = math.Log(a / b)
		default:
			value = math.Log(a) - math.Log(b)
		}
		if !models.IsPresent(value) {
			continue
		}
		if k := len(series.Points); k > 0 && !timestamps[i].After(series.Points[k-1].Timestamp) {
			continue
		}
		series.Points = append(series.Points, models.PricePoint{Timestamp: timestamps[i], Value: value})
	}

	return series
}

// CalculateSpreadStats summarises a spread built from p1 and p2.
func CalculateSpreadStats(p1, p2 []float64, spread models.SpreadSeries) models.SpreadStats {
	values := spread.Values()
	summary := models.SpreadStats{
		Mean:   stats.Mean(values),
		StdDev: stats.StdDev(values),
	}

	y := make([]float64, 0, len(p1))
	design := make([][]float64, 0, len(p1))
	for i := 0; i < len(p1) && i < len(p2); i++ {
		if p1[i] > 0 && p2[i] > 0 && models.IsPresent(p1[i]) && models.IsPresent(p2[i]) {
			y = append(y, math.Log(p1[i]))
			design = append(design, []float64{math.Log(p2[i]), 1})
		}
	}
	if fit, err := stats.OLS(y, design); err == nil {
		summary.HedgeRatio = models.Float64Ptr(fit.Params[0])
	}

	if halfLife, ok := stats.HalfLife(values); ok {
		summary.HalfLife = models.Float64Ptr(halfLife)
	}

	return summary
}

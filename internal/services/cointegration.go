package services

import (
	"sort"
	"time"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/stats"
)

// AlignSeries intersects two series on timestamp, dropping instants where
// either value is absent. Output is ordered by time.
func AlignSeries(s1, s2 []models.PricePoint) ([]time.Time, []float64, []float64) {
	second := make(map[int64]float64, len(s2))
	for _, p := range s2 {
		if models.IsPresent(p.Value) {
			second[p.Timestamp.UnixNano()] = p.Value
		}
	}

	type aligned struct {
		ts     time.Time
		v1, v2 float64
	}
	rows := make([]aligned, 0, len(s1))
	for _, p := range s1 {
		if !models.IsPresent(p.Value) {
			continue
		}
		if v2, ok := second[p.Timestamp.UnixNano()]; ok {
			rows = append(rows, aligned{ts: p.Timestamp, v1: p.Value, v2: v2})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	timestamps := make([]time.Time, len(rows))
	p1 := make([]float64, len(rows))
	p2 := make([]float64, len(rows))
	for i, r := range rows {
		timestamps[i] = r.ts
		p1[i] = r.v1
		p2[i] = r.v2
	}
	return timestamps, p1, p2
}

// TestCointegration runs the Engle-Granger test on the raw prices of a
// candidate. Data shortfalls and numerical failures are reported on the
// result, never returned as errors.
func TestCointegration(candidate models.PairCandidate, s1, s2 []models.PricePoint, minPoints int, significance float64) models.CointegrationResult {
	_, p1, p2 := AlignSeries(s1, s2)

	if len(p1) < minPoints {
		return failedCointegration(candidate, models.ErrMsgInsufficientDataPoints, len(p1))
	}

	res, err := stats.Coint(p1, p2)
	if err != nil {
		return failedCointegration(candidate, err.Error(), 0)
	}

	return models.CointegrationResult{
		PairCandidate:  candidate,
		IsCointegrated: res.PValue < significance,
		PValue:         models.Float64Ptr(res.PValue),
		TestStatistic:  models.Float64Ptr(res.Statistic),
		CriticalValues: criticalValues(res.CriticalValues),
		DataPoints:     len(p1),
	}
}

func failedCointegration(candidate models.PairCandidate, message string, dataPoints int) models.CointegrationResult {
	return models.CointegrationResult{
		PairCandidate:  candidate,
		IsCointegrated: false,
		DataPoints:     dataPoints,
		Error:          models.StringPtr(message),
	}
}

func criticalValues(crit [3]float64) *models.CriticalValues {
	return &models.CriticalValues{
		OnePercent:  crit[0],
		FivePercent: crit[1],
		TenPercent:  crit[2],
	}
}

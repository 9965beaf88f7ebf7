package services

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/stats"
)

// BuildTrainingFeatures derives lag, rolling and z-score features from a
// shortlisted pair's spread. Rows missing any feature are dropped; when
// fewer than minPoints rows remain no frame is produced.
func BuildTrainingFeatures(pair models.ShortlistedPair, spread models.SpreadSeries, minPoints int) (*models.TrainingFeatureFrame, bool) {
	if pair.PValue == nil || !models.IsPresent(*pair.PValue) {
		return nil, false
	}
	values := spread.Values()
	n := len(values)

	mean5 := rollingMean(values, models.ShortRollingWindow)
	std5 := rollingStd(values, models.ShortRollingWindow)
	mean20 := rollingMean(values, models.LongRollingWindow)
	std20 := rollingStd(values, models.LongRollingWindow)

	rows := make([]models.FeatureRow, 0, n)
	for i := models.FeatureLags; i < n; i++ {
		if !models.IsPresent(mean5[i]) || !models.IsPresent(std5[i]) ||
			!models.IsPresent(mean20[i]) || !models.IsPresent(std20[i]) {
			continue
		}
		if std20[i] == 0 {
			continue
		}

		row := models.FeatureRow{
			Timestamp:           spread.Points[i].Timestamp,
			Spread:              values[i],
			RollingMean5:        mean5[i],
			RollingStd5:         std5[i],
			RollingMean20:       mean20[i],
			RollingStd20:        std20[i],
			ZScore:              (values[i] - mean20[i]) / std20[i],
			Correlation:         pair.Correlation,
			CointegrationPValue: *pair.PValue,
			IsStationary:        pair.Stationarity.IsStationary,
		}
		for lag := 1; lag <= models.FeatureLags; lag++ {
			row.SpreadLags[lag-1] = values[i-lag]
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 || len(rows) < minPoints {
		return nil, false
	}

	return &models.TrainingFeatureFrame{
		Symbol1: pair.Symbol1,
		Symbol2: pair.Symbol2,
		Rows:    rows,
	}, true
}

// rollingMean returns the trailing simple moving average aligned with
// values; positions without a full window are NaN.
func rollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sma := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](window).Compute(helper.SliceToChan(values)))
	offset := len(values) - len(sma)
	for i := window - 1; i < len(values); i++ {
		if k := i - offset; k >= 0 && k < len(sma) {
			out[i] = sma[k]
		}
	}
	return out
}

// rollingStd returns the trailing sample standard deviation aligned with
// values; positions without a full window are NaN.
func rollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = stats.StdDev(values[i-window+1 : i+1])
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

package services

import (
	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/stats"
)

// minStationarityPoints is the smallest spread the ADF test is run on.
const minStationarityPoints = 10

// ValidateStationarity runs an ADF test with a constant on the spread values.
func ValidateStationarity(spread models.SpreadSeries, significance float64) models.StationarityResult {
	values := make([]float64, 0, spread.Len())
	for _, v := range spread.Values() {
		if models.IsPresent(v) {
			values = append(values, v)
		}
	}

	if len(values) < minStationarityPoints {
		return models.StationarityResult{
			IsStationary: false,
			Error:        models.StringPtr(models.ErrMsgInsufficientADFData),
		}
	}

	res, err := stats.ADF(values, stats.RegressionConstant)
	if err != nil {
		return models.StationarityResult{
			IsStationary: false,
			Error:        models.StringPtr(err.Error()),
		}
	}

	return models.StationarityResult{
		IsStationary:   res.PValue < significance,
		PValue:         models.Float64Ptr(res.PValue),
		TestStatistic:  models.Float64Ptr(res.Statistic),
		CriticalValues: criticalValues(res.CriticalValues),
		UsedLag:        res.UsedLag,
	}
}

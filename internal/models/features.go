package models

import "time"

// Lag and window sizes used for training features.
const (
	FeatureLags        = 5
	ShortRollingWindow = 5
	LongRollingWindow  = 20
)

// FeatureRow is one fully populated training record.
type FeatureRow struct {
	Timestamp           time.Time            `json:"timestamp"`
	Spread              float64              `json:"spread"`
	SpreadLags          [FeatureLags]float64 `json:"spread_lags"`
	RollingMean5        float64              `json:"rolling_mean_5"`
	RollingStd5         float64              `json:"rolling_std_5"`
	RollingMean20       float64              `json:"rolling_mean_20"`
	RollingStd20        float64              `json:"rolling_std_20"`
	ZScore              float64              `json:"z_score"`
	Correlation         float64              `json:"correlation"`
	CointegrationPValue float64              `json:"cointegration_p_value"`
	IsStationary        bool                 `json:"is_stationary"`
}

// TrainingFeatureFrame is the feature set derived from one shortlisted pair.
type TrainingFeatureFrame struct {
	Symbol1 string       `json:"symbol1"`
	Symbol2 string       `json:"symbol2"`
	Rows    []FeatureRow `json:"rows"`
}

// Len returns the number of rows.
func (f TrainingFeatureFrame) Len() int {
	return len(f.Rows)
}

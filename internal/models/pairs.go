package models

import (
	"fmt"
	"time"
)

// Per-pair error messages surfaced on result records.
const (
	ErrMsgInsufficientDataPoints = "Insufficient data points"
	ErrMsgInsufficientADFData    = "Insufficient data for ADF test"
	ErrMsgBelowPrefilter         = "Correlation below cointegration pre-filter"
)

// PairCandidate is an unordered symbol pair whose correlation cleared the
// selection threshold. Symbol1 < Symbol2 lexically.
type PairCandidate struct {
	Symbol1     string  `json:"symbol1"`
	Symbol2     string  `json:"symbol2"`
	Correlation float64 `json:"correlation"`
	Rank        int     `json:"rank"`
}

// Key identifies the pair as "SYMBOL1/SYMBOL2".
func (c PairCandidate) Key() string {
	return c.Symbol1 + "/" + c.Symbol2
}

// CriticalValues holds test critical values at the 1%, 5% and 10% levels.
type CriticalValues struct {
	OnePercent  float64 `json:"1%"`
	FivePercent float64 `json:"5%"`
	TenPercent  float64 `json:"10%"`
}

// CointegrationResult is the Engle-Granger outcome for one candidate.
// When Error is set, IsCointegrated is false and all statistics are nil.
type CointegrationResult struct {
	PairCandidate
	IsCointegrated bool            `json:"is_cointegrated"`
	PValue         *float64        `json:"p_value"`
	TestStatistic  *float64        `json:"test_statistic"`
	CriticalValues *CriticalValues `json:"critical_values"`
	DataPoints     int             `json:"data_points"`
	Error          *string         `json:"error,omitempty"`
}

// Failed reports whether the cointegration stage recorded an error.
func (r CointegrationResult) Failed() bool {
	return r.Error != nil
}

// SpreadMethod selects how two price series are combined into a spread.
type SpreadMethod string

const (
	SpreadLogDifference SpreadMethod = "log_difference"
	SpreadLogRatio      SpreadMethod = "log_ratio"
)

// ParseSpreadMethod maps a configuration string to a SpreadMethod.
func ParseSpreadMethod(s string) (SpreadMethod, error) {
	switch SpreadMethod(s) {
	case SpreadLogDifference, "":
		return SpreadLogDifference, nil
	case SpreadLogRatio:
		return SpreadLogRatio, nil
	}
	return "", fmt.Errorf("unknown spread method %q", s)
}

// SpreadSeries is the spread of a pair over strictly increasing timestamps.
// Every value is finite.
type SpreadSeries struct {
	Symbol1 string       `json:"symbol1"`
	Symbol2 string       `json:"symbol2"`
	Method  SpreadMethod `json:"method"`
	Points  []PricePoint `json:"points"`
}

// Len returns the number of points.
func (s SpreadSeries) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the spread has no points.
func (s SpreadSeries) IsEmpty() bool {
	return len(s.Points) == 0
}

// Values returns the spread values in time order.
func (s SpreadSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// StationarityResult is the ADF outcome for a spread series.
type StationarityResult struct {
	IsStationary   bool            `json:"is_stationary"`
	PValue         *float64        `json:"p_value"`
	TestStatistic  *float64        `json:"test_statistic"`
	CriticalValues *CriticalValues `json:"critical_values"`
	UsedLag        int             `json:"used_lag"`
	Error          *string         `json:"error,omitempty"`
}

// SpreadStats summarises a spread for reviewers. HedgeRatio is the OLS
// slope of ln(p1) on ln(p2); HalfLife is nil when the spread does not
// mean-revert.
type SpreadStats struct {
	HedgeRatio *float64 `json:"hedge_ratio,omitempty"`
	Mean       float64  `json:"mean"`
	StdDev     float64  `json:"std_dev"`
	HalfLife   *float64 `json:"half_life,omitempty"`
}

// ShortlistedPair is a candidate that passed every acceptance rule.
type ShortlistedPair struct {
	CointegrationResult
	Stationarity     StationarityResult `json:"stationarity"`
	SpreadDataPoints int                `json:"spread_data_points"`
	SpreadStats      SpreadStats        `json:"spread_stats"`
	ShortlistRank    int                `json:"shortlist_rank"`
}

// DiscoveryReport bundles the outputs of one discovery run.
type DiscoveryReport struct {
	RunID              string                 `json:"run_id"`
	StartedAt          time.Time              `json:"started_at"`
	Duration           time.Duration          `json:"duration"`
	Symbols            []string               `json:"symbols"`
	Candidates         []PairCandidate        `json:"candidates"`
	CointegrationTests []CointegrationResult  `json:"cointegration_tests"`
	Shortlist          []ShortlistedPair      `json:"shortlist"`
	FeatureFrames      []TrainingFeatureFrame `json:"feature_frames"`
	CorrelationMatrix  *CorrelationMatrix     `json:"correlation_matrix"`
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

package stats

import (
	"fmt"
	"math"
)

// colinearityBound is 1 - 100*sqrt(machine epsilon).
var colinearityBound = 1 - 100*math.Sqrt(2.220446049250313e-16)

// CointResult is the outcome of an Engle-Granger cointegration test.
type CointResult struct {
	Statistic      float64
	PValue         float64
	UsedLag        int
	Nobs           int
	HedgeRatio     float64
	Intercept      float64
	CriticalValues [3]float64
}

// Coint runs the two-step Engle-Granger test: y0 is regressed on y1 with an
// intercept and the residual is tested for a unit root without
// deterministic terms. P-values and critical values use the MacKinnon
// tables for a two-variable system with a constant.
//
// A first-stage fit with R² at or above 1-100*sqrt(eps) returns
// ErrPerfectColinearity instead of a statistic of -Inf with p-value 0, so an
// exactly linear pair is reported as a failed test and never shortlisted.
func Coint(y0, y1 []float64) (*CointResult, error) {
	nobs := len(y0)
	if nobs != len(y1) {
		return nil, fmt.Errorf("series length mismatch: %d != %d", len(y0), len(y1))
	}
	if nobs < 3 {
		return nil, fmt.Errorf("%w: %d observations", ErrInsufficientData, nobs)
	}
	if IsConstant(y0) || IsConstant(y1) {
		return nil, ErrConstantSeries
	}

	design := make([][]float64, nobs)
	for i, v := range y1 {
		design[i] = []float64{v, 1}
	}
	fit, err := OLS(y0, design)
	if err != nil {
		return nil, err
	}
	if !(fit.RSquared < colinearityBound) {
		return nil, ErrPerfectColinearity
	}

	const variables = 2
	adf, err := adfStatistic(fit.Resid, RegressionNone)
	if err != nil {
		return nil, err
	}
	// The residual test is referred to the constant-term tables.
	pvalue, err := MacKinnonP(adf.Statistic, RegressionConstant, variables)
	if err != nil {
		return nil, err
	}
	crit, err := MacKinnonCrit(RegressionConstant, variables, nobs-1)
	if err != nil {
		return nil, err
	}

	return &CointResult{
		Statistic:      adf.Statistic,
		PValue:         pvalue,
		UsedLag:        adf.UsedLag,
		Nobs:           nobs,
		HedgeRatio:     fit.Params[0],
		Intercept:      fit.Params[1],
		CriticalValues: crit,
	}, nil
}

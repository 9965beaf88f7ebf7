package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Regression selects the deterministic terms of a unit-root regression.
type Regression string

const (
	// RegressionNone fits no deterministic terms.
	RegressionNone Regression = "n"
	// RegressionConstant fits an intercept.
	RegressionConstant Regression = "c"
)

// MacKinnon (1994) response-surface coefficients for approximate p-values,
// indexed by the number of variables N (1-based) in the cointegrating system.
type tauTable struct {
	star   []float64
	min    []float64
	max    []float64
	smallP [][]float64
	largeP [][]float64
}

var tauTables = map[Regression]tauTable{
	RegressionNone: {
		star: []float64{-1.04, -1.53, -2.68, -3.09, -3.07, -3.77},
		min:  []float64{-19.04, -19.62, -21.21, -23.25, -21.63, -25.74},
		max:  []float64{math.Inf(1), 1.51, 0.86, 0.88, 1.05, 1.24},
		smallP: [][]float64{
			{0.6344, 1.2378, 3.2496e-2},
			{1.9129, 1.3857, 3.5322e-2},
			{2.7648, 1.4502, 3.4186e-2},
			{3.4336, 1.4835, 3.19e-2},
			{4.0999, 1.5533, 3.59e-2},
			{4.5388, 1.5344, 2.9807e-2},
		},
		largeP: [][]float64{
			{0.4797, 9.3557e-1, -0.6999e-1, 3.3066e-2},
			{1.5578, 8.558e-1, -2.083e-1, -3.3549e-2},
			{2.2268, 6.8093e-1, -3.2362e-1, -5.4448e-2},
			{2.7654, 6.4502e-1, -3.0811e-1, -4.4946e-2},
			{3.2684, 6.8051e-1, -2.6778e-1, -3.4972e-2},
			{3.7268, 7.167e-1, -2.3648e-1, -2.8288e-2},
		},
	},
	RegressionConstant: {
		star: []float64{-1.61, -2.62, -3.13, -3.47, -3.78, -3.93},
		min:  []float64{-18.83, -18.86, -23.48, -28.07, -25.96, -23.27},
		max:  []float64{2.74, 0.92, 0.55, 0.61, 0.79, 1},
		smallP: [][]float64{
			{2.1659, 1.4412, 3.8269e-2},
			{2.92, 1.5012, 3.9796e-2},
			{3.4699, 1.4856, 3.164e-2},
			{3.9673, 1.4777, 2.6315e-2},
			{4.5509, 1.5338, 2.9545e-2},
			{5.1399, 1.6036, 3.4445e-2},
		},
		largeP: [][]float64{
			{1.7339, 9.3202e-1, -1.2745e-1, -1.0368e-2},
			{2.1945, 6.4695e-1, -2.9198e-1, -4.2377e-2},
			{2.5893, 4.5168e-1, -3.6529e-1, -5.0074e-2},
			{3.0387, 4.5452e-1, -3.3666e-1, -4.1921e-2},
			{3.5049, 5.2098e-1, -2.9158e-1, -3.3468e-2},
			{3.9489, 5.8933e-1, -2.5359e-1, -2.721e-2},
		},
	},
}

// MacKinnon (2010) finite-sample critical value coefficients
// b0 + b1/T + b2/T^2 + b3/T^3 for the 1%, 5% and 10% levels.
var critTables = map[Regression][][3][4]float64{
	RegressionNone: {
		{
			{-2.56574, -2.2358, -3.627, 0},
			{-1.94100, -0.2686, -3.365, 31.223},
			{-1.61682, 0.2656, -2.714, 25.364},
		},
	},
	RegressionConstant: {
		{
			{-3.43035, -6.5393, -16.786, -79.433},
			{-2.86154, -2.8903, -4.234, -40.040},
			{-2.56677, -1.5384, -2.809, 0},
		},
		{
			{-3.89644, -10.9519, -33.527, 0},
			{-3.33613, -6.1101, -6.823, 0},
			{-3.04445, -4.2412, -2.720, 0},
		},
	},
}

// MacKinnonP returns the approximate p-value of a unit-root test statistic
// for a system of n variables.
func MacKinnonP(statistic float64, regression Regression, n int) (float64, error) {
	table, ok := tauTables[regression]
	if !ok || n < 1 || n > len(table.star) {
		return 0, fmt.Errorf("%w: regression=%q n=%d", ErrUnsupportedRegression, regression, n)
	}
	idx := n - 1
	if statistic > table.max[idx] {
		return 1, nil
	}
	if statistic < table.min[idx] {
		return 0, nil
	}

	coef := table.largeP[idx]
	if statistic <= table.star[idx] {
		coef = table.smallP[idx]
	}
	return distuv.UnitNormal.CDF(polyval(coef, statistic)), nil
}

// MacKinnonCrit returns the 1%, 5% and 10% critical values for nobs
// observations. A non-positive nobs yields the asymptotic values.
func MacKinnonCrit(regression Regression, n int, nobs int) ([3]float64, error) {
	var out [3]float64
	rows, ok := critTables[regression]
	if !ok || n < 1 || n > len(rows) {
		return out, fmt.Errorf("%w: regression=%q n=%d", ErrUnsupportedRegression, regression, n)
	}
	for level, coef := range rows[n-1] {
		if nobs <= 0 {
			out[level] = coef[0]
			continue
		}
		out[level] = polyval(coef[:], 1/float64(nobs))
	}
	return out, nil
}

// polyval evaluates coef[0] + coef[1]*x + coef[2]*x^2 + ...
func polyval(coef []float64, x float64) float64 {
	var result float64
	for i := len(coef) - 1; i >= 0; i-- {
		result = result*x + coef[i]
	}
	return result
}

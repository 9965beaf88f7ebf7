package stats

import (
	"fmt"
	"math"
)

// ADFResult is the outcome of an augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic      float64
	PValue         float64
	UsedLag        int
	Nobs           int
	CriticalValues [3]float64
}

// ADF runs an augmented Dickey-Fuller test on x with the lag order chosen
// by AIC over 0..maxlag, maxlag = ceil(12*(nobs/100)^(1/4)) capped so the
// regression keeps enough degrees of freedom.
func ADF(x []float64, regression Regression) (*ADFResult, error) {
	res, err := adfStatistic(x, regression)
	if err != nil {
		return nil, err
	}
	if res.PValue, err = MacKinnonP(res.Statistic, regression, 1); err != nil {
		return nil, err
	}
	if res.CriticalValues, err = MacKinnonCrit(regression, 1, res.Nobs); err != nil {
		return nil, err
	}
	return res, nil
}

// adfStatistic computes the ADF t-statistic with AIC lag selection.
// PValue and CriticalValues are left for the caller to fill in.
func adfStatistic(x []float64, regression Regression) (*ADFResult, error) {
	ntrend, err := trendTerms(regression)
	if err != nil {
		return nil, err
	}
	nobs := len(x)
	if nobs < 3 {
		return nil, fmt.Errorf("%w: %d observations", ErrInsufficientData, nobs)
	}
	if IsConstant(x) {
		return nil, ErrConstantSeries
	}

	maxlag := int(math.Ceil(12 * math.Pow(float64(nobs)/100, 0.25)))
	if limit := nobs/2 - ntrend - 1; limit < maxlag {
		maxlag = limit
	}
	if maxlag < 0 {
		return nil, fmt.Errorf("%w: sample size is too short to use selected regression component", ErrInsufficientData)
	}

	dx := Diff(x)

	// Lag selection runs every candidate on the common sample defined by maxlag.
	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxlag; lag++ {
		y, design := adfDesign(x, dx, maxlag, lag, ntrend)
		fit, err := OLS(y, design)
		if err != nil {
			return nil, err
		}
		if aic := fit.AIC(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	y, design := adfDesign(x, dx, bestLag, bestLag, ntrend)
	fit, err := OLS(y, design)
	if err != nil {
		return nil, err
	}

	return &ADFResult{
		Statistic: fit.TValues[0],
		UsedLag:   bestLag,
		Nobs:      len(y),
	}, nil
}

// adfDesign builds dx_t = gamma*x_{t-1} + sum_j delta_j*dx_{t-j} + trend over
// the sample that starts after sampleLag lagged differences. The level
// regressor is always column 0.
func adfDesign(x, dx []float64, sampleLag, lag, ntrend int) ([]float64, [][]float64) {
	rows := len(dx) - sampleLag
	y := make([]float64, rows)
	design := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		t := sampleLag + r
		row := make([]float64, 0, 1+lag+ntrend)
		row = append(row, x[t])
		for j := 1; j <= lag; j++ {
			row = append(row, dx[t-j])
		}
		if ntrend == 1 {
			row = append(row, 1)
		}
		y[r] = dx[t]
		design[r] = row
	}
	return y, design
}

func trendTerms(regression Regression) (int, error) {
	switch regression {
	case RegressionNone:
		return 0, nil
	case RegressionConstant:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: regression=%q", ErrUnsupportedRegression, regression)
}

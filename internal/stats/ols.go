package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxCondition bounds the design condition number accepted by OLS.
const maxCondition = 1e12

// OLSResult holds an ordinary least squares fit.
type OLSResult struct {
	Params    []float64
	StdErrors []float64
	TValues   []float64
	Resid     []float64
	SSR       float64
	RSquared  float64
	Nobs      int
	K         int
}

// LogLikelihood returns the Gaussian log-likelihood of the fit.
func (r *OLSResult) LogLikelihood() float64 {
	n := float64(r.Nobs)
	return -n / 2 * (math.Log(2*math.Pi) + math.Log(r.SSR/n) + 1)
}

// AIC returns the Akaike information criterion, counting every regressor.
func (r *OLSResult) AIC() float64 {
	return -2*r.LogLikelihood() + 2*float64(r.K)
}

// OLS regresses y on the rows of x. Every row must have the same width.
// RSquared is centered, so it is only meaningful when x carries a constant.
func OLS(y []float64, x [][]float64) (*OLSResult, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("%w: %d observations for %d design rows", ErrInsufficientData, n, len(x))
	}
	k := len(x[0])
	if k == 0 || n <= k {
		return nil, fmt.Errorf("%w: %d observations for %d regressors", ErrInsufficientData, n, k)
	}

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("design row %d has %d columns, want %d", i, len(row), k)
		}
		design.SetRow(i, row)
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	if cond := qr.Cond(); math.IsNaN(cond) || cond > maxCondition {
		return nil, ErrSingularMatrix
	}

	beta := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(beta, false, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularMatrix, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, beta)

	resid := make([]float64, n)
	var ssr float64
	for i := 0; i < n; i++ {
		resid[i] = y[i] - fitted.AtVec(i)
		ssr += resid[i] * resid[i]
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, design.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, ErrSingularMatrix
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}

	scale := ssr / float64(n-k)
	params := make([]float64, k)
	stdErrs := make([]float64, k)
	tvalues := make([]float64, k)
	for i := 0; i < k; i++ {
		params[i] = beta.AtVec(i)
		stdErrs[i] = math.Sqrt(scale * cov.At(i, i))
		tvalues[i] = params[i] / stdErrs[i]
	}

	yMean := Mean(y)
	var tss float64
	for _, v := range y {
		tss += (v - yMean) * (v - yMean)
	}
	rsquared := math.NaN()
	if tss > 0 {
		rsquared = 1 - ssr/tss
	}

	return &OLSResult{
		Params:    params,
		StdErrors: stdErrs,
		TValues:   tvalues,
		Resid:     resid,
		SSR:       ssr,
		RSquared:  rsquared,
		Nobs:      n,
		K:         k,
	}, nil
}

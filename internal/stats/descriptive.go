package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator),
// or 0 when fewer than two values are given.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Pearson returns the linear correlation of x and y clamped to [-1, 1].
// NaN is returned when fewer than two points are given or either input
// has zero variance.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) || IsConstant(x) || IsConstant(y) {
		return math.NaN()
	}
	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return math.NaN()
	}
	if corr > 1 {
		return 1
	}
	if corr < -1 {
		return -1
	}
	return corr
}

// Spearman returns the rank correlation of x and y. Ties get average ranks.
func Spearman(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	return Pearson(Rank(x), Rank(y))
}

// Kendall returns Kendall's tau-b of x and y.
func Kendall(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return math.NaN()
	}

	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[j] - x[i]
			dy := y[j] - y[i]
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tiesX++
			case dy == 0:
				tiesY++
			case (dx > 0) == (dy > 0):
				concordant++
			default:
				discordant++
			}
		}
	}

	denom := math.Sqrt((concordant + discordant + tiesX) * (concordant + discordant + tiesY))
	if denom == 0 {
		return math.NaN()
	}
	return (concordant - discordant) / denom
}

// IsConstant reports whether every value equals the first one.
func IsConstant(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Rank returns 1-based ranks of values, averaging over ties.
func Rank(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// Diff returns first differences of series.
func Diff(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

// FitAR1 estimates an AR(1) model: y_t = c + phi*y_{t-1} + e_t.
func FitAR1(series []float64) (phi float64, c float64) {
	if len(series) < 2 {
		return 0, 0
	}

	var sumX float64
	var sumY float64
	var sumXX float64
	var sumXY float64
	for i := 1; i < len(series); i++ {
		x := series[i-1]
		y := series[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(len(series) - 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, Mean(series)
	}
	phi = (n*sumXY - sumX*sumY) / denom
	c = (sumY - phi*sumX) / n
	return phi, c
}

// HalfLife returns the mean-reversion half-life implied by an AR(1) fit of
// series, in observations. ok is false when the series does not mean-revert.
func HalfLife(series []float64) (float64, bool) {
	phi, _ := FitAR1(series)
	if phi <= 0 || phi >= 1 {
		return 0, false
	}
	return -math.Ln2 / math.Log(phi), true
}

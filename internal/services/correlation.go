package services

import (
	"fmt"
	"math"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/stats"
)

// BuildCorrelationMatrix computes pairwise-complete correlations between
// every pair of panel columns. Each cell uses only the rows where both
// columns are present; the diagonal is exactly 1.
func BuildCorrelationMatrix(panel *models.PricePanel, method models.CorrelationMethod) (*models.CorrelationMatrix, error) {
	if panel == nil {
		return nil, ErrEmptyPriceTable
	}
	estimator, err := correlationEstimator(method)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = models.CorrelationPearson
	}

	n := len(panel.Symbols)
	columns := make([][]float64, n)
	for j := range panel.Symbols {
		columns[j] = panel.ColumnValues(j)
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := pairwiseComplete(columns[i], columns[j])
			value := math.NaN()
			if len(x) >= 2 {
				value = estimator(x, y)
			}
			matrix[i][j] = value
			matrix[j][i] = value
		}
	}

	symbols := make([]string, n)
	copy(symbols, panel.Symbols)

	return &models.CorrelationMatrix{
		Symbols: symbols,
		Matrix:  matrix,
		Method:  method,
	}, nil
}

func correlationEstimator(method models.CorrelationMethod) (func(x, y []float64) float64, error) {
	switch method {
	case models.CorrelationPearson, "":
		return stats.Pearson, nil
	case models.CorrelationSpearman:
		return stats.Spearman, nil
	case models.CorrelationKendall:
		return stats.Kendall, nil
	}
	return nil, fmt.Errorf("unknown correlation method %q", method)
}

// pairwiseComplete keeps the positions where both a and b are present.
func pairwiseComplete(a, b []float64) ([]float64, []float64) {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(a))
	for k := range a {
		if models.IsPresent(a[k]) && models.IsPresent(b[k]) {
			x = append(x, a[k])
			y = append(y, b[k])
		}
	}
	return x, y
}

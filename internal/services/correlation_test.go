package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/testutil"
)

func TestBuildCorrelationMatrix_Scenario(t *testing.T) {
	panel := mustPanel(t, testutil.ScenarioObservations(200))

	for _, method := range []models.CorrelationMethod{models.CorrelationPearson, models.CorrelationSpearman, models.CorrelationKendall} {
		t.Run(string(method), func(t *testing.T) {
			matrix, err := BuildCorrelationMatrix(panel, method)
			require.NoError(t, err)
			assert.Equal(t, method, matrix.Method)
			assert.Equal(t, []string{"X", "Y", "Z"}, matrix.Symbols)

			for i := range matrix.Symbols {
				assert.Equal(t, 1.0, matrix.Matrix[i][i])
				for j := range matrix.Symbols {
					assert.Equal(t, matrix.Matrix[i][j], matrix.Matrix[j][i])
					assert.False(t, math.IsNaN(matrix.Matrix[i][j]))
				}
			}

			xy, ok := matrix.Get("X", "Y")
			require.True(t, ok)
			assert.Greater(t, xy, 0.8)
		})
	}
}

func TestBuildCorrelationMatrix_PearsonValues(t *testing.T) {
	panel := mustPanel(t, testutil.ScenarioObservations(200))

	matrix, err := BuildCorrelationMatrix(panel, models.CorrelationPearson)
	require.NoError(t, err)

	xy, _ := matrix.Get("X", "Y")
	xz, _ := matrix.Get("X", "Z")
	yz, _ := matrix.Get("Y", "Z")
	assert.InDelta(t, 0.9796, xy, 1e-3)
	assert.InDelta(t, -0.287, xz, 1e-2)
	assert.InDelta(t, -0.268, yz, 1e-2)
}

func TestBuildCorrelationMatrix_PairwiseComplete(t *testing.T) {
	nan := math.NaN()
	panel := models.NewPricePanel([]string{"A", "B", "C", "D"}, days(6))
	columns := map[string][]float64{
		"A": {1, 2, 3, 4, 5, 6},
		"B": {2, 4, 6, 8, 10, 12},
		"C": {nan, nan, 3, 1, 2, nan},
		"D": {7, nan, nan, nan, nan, nan},
	}
	for symbol, values := range columns {
		col := panel.SymbolIndex(symbol)
		for row, v := range values {
			panel.Values[row][col] = v
		}
	}

	matrix, err := BuildCorrelationMatrix(panel, models.CorrelationPearson)
	require.NoError(t, err)

	ab, ok := matrix.Get("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 1.0, ab, 1e-12, "A/B uses all six rows despite gaps in C")

	ac, ok := matrix.Get("A", "C")
	require.True(t, ok)
	assert.InDelta(t, -0.5, ac, 1e-12, "A/C uses only rows where C is present")

	_, ok = matrix.Get("C", "D")
	assert.False(t, ok, "no overlapping rows")
	_, ok = matrix.Get("A", "D")
	assert.False(t, ok, "a single overlapping row is not enough")

	dd, ok := matrix.Get("D", "D")
	assert.True(t, ok)
	assert.Equal(t, 1.0, dd)
}

func TestBuildCorrelationMatrix_Errors(t *testing.T) {
	_, err := BuildCorrelationMatrix(nil, models.CorrelationPearson)
	assert.ErrorIs(t, err, ErrEmptyPriceTable)

	panel := mustPanel(t, testutil.ScenarioObservations(30))
	_, err = BuildCorrelationMatrix(panel, models.CorrelationMethod("distance"))
	assert.Error(t, err)
}

func TestBuildCorrelationMatrix_DefaultMethod(t *testing.T) {
	panel := mustPanel(t, testutil.ScenarioObservations(30))

	matrix, err := BuildCorrelationMatrix(panel, "")
	require.NoError(t, err)
	assert.Equal(t, models.CorrelationPearson, matrix.Method)
}

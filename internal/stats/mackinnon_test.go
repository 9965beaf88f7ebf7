package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacKinnonP(t *testing.T) {
	tests := []struct {
		name       string
		statistic  float64
		regression Regression
		n          int
		expected   float64
	}{
		{name: "adf 5% asymptotic critical value", statistic: -2.86154, regression: RegressionConstant, n: 1, expected: 0.050006651165625596},
		{name: "engle-granger 5% asymptotic critical value", statistic: -3.33613, regression: RegressionConstant, n: 2, expected: 0.04995621712548727},
		{name: "large p branch", statistic: -1.0, regression: RegressionConstant, n: 1, expected: 0.7532643012005655},
		{name: "no constant", statistic: -1.941, regression: RegressionNone, n: 1, expected: 0.04990847103929476},
		{name: "above maximum", statistic: 3.0, regression: RegressionConstant, n: 1, expected: 1},
		{name: "below minimum", statistic: -30, regression: RegressionConstant, n: 2, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := MacKinnonP(tc.statistic, tc.regression, tc.n)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, p, 1e-9)
		})
	}
}

func TestMacKinnonP_Unsupported(t *testing.T) {
	_, err := MacKinnonP(-2, RegressionConstant, 7)
	assert.ErrorIs(t, err, ErrUnsupportedRegression)

	_, err = MacKinnonP(-2, Regression("ct"), 1)
	assert.ErrorIs(t, err, ErrUnsupportedRegression)
}

func TestMacKinnonCrit(t *testing.T) {
	t.Run("asymptotic", func(t *testing.T) {
		crit, err := MacKinnonCrit(RegressionConstant, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, [3]float64{-3.43035, -2.86154, -2.56677}, crit)
	})

	t.Run("finite sample", func(t *testing.T) {
		crit, err := MacKinnonCrit(RegressionConstant, 1, 100)
		require.NoError(t, err)
		assert.InDelta(t, -3.497501033, crit[0], 1e-9)
		assert.Less(t, crit[0], crit[1])
		assert.Less(t, crit[1], crit[2])
	})

	t.Run("two variables", func(t *testing.T) {
		crit, err := MacKinnonCrit(RegressionConstant, 2, 199)
		require.NoError(t, err)
		assert.InDelta(t, -3.367, crit[1], 1e-3)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := MacKinnonCrit(RegressionNone, 2, 100)
		assert.ErrorIs(t, err, ErrUnsupportedRegression)
	})
}

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{5.0}, expected: 5.0},
		{name: "multiple positive values", values: []float64{1, 2, 3, 4, 5}, expected: 3.0},
		{name: "mixed positive and negative", values: []float64{-10, 0, 10}, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Mean(tc.values), 1e-10)
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{5.0}, expected: 0},
		{name: "two identical values", values: []float64{5, 5}, expected: 0},
		{name: "simple std dev", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, expected: 2.138089935299395},
		{name: "uniform distribution", values: []float64{1, 2, 3, 4, 5}, expected: math.Sqrt(2.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, StdDev(tc.values), 1e-10)
		})
	}
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name     string
		x        []float64
		y        []float64
		expected float64
	}{
		{name: "perfect positive", x: []float64{1, 2, 3, 4, 5}, y: []float64{2, 4, 6, 8, 10}, expected: 1},
		{name: "perfect negative", x: []float64{1, 2, 3, 4, 5}, y: []float64{10, 8, 6, 4, 2}, expected: -1},
		{name: "known value", x: []float64{1, 2, 3, 4, 5}, y: []float64{2, 1, 4, 3, 5}, expected: 0.8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Pearson(tc.x, tc.y), 1e-10)
		})
	}
}

func TestPearson_Undefined(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
	}{
		{name: "empty slices", x: []float64{}, y: []float64{}},
		{name: "single point", x: []float64{1}, y: []float64{2}},
		{name: "mismatched lengths", x: []float64{1, 2}, y: []float64{1}},
		{name: "constant y", x: []float64{1, 2, 3}, y: []float64{0.1, 0.1, 0.1}},
		{name: "constant x", x: []float64{7, 7, 7}, y: []float64{1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(Pearson(tc.x, tc.y)))
		})
	}
}

func TestRank(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Rank([]float64{10, 20, 30}))
	assert.Equal(t, []float64{3, 1, 2}, Rank([]float64{30, 10, 20}))
	// ties share the average rank
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, Rank([]float64{1, 5, 5, 9}))
	assert.Empty(t, Rank(nil))
}

func TestSpearman(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	// monotonic but non-linear
	y := []float64{1, 8, 27, 64, 125}
	assert.InDelta(t, 1.0, Spearman(x, y), 1e-12)
	assert.Less(t, Pearson(x, y), 1.0)

	assert.InDelta(t, -1.0, Spearman(x, []float64{5, 4, 3, 2, 1}), 1e-12)
	assert.True(t, math.IsNaN(Spearman([]float64{1}, []float64{1})))
}

func TestKendall(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Kendall(x, []float64{2, 3, 10, 11, 50}), 1e-12)
	assert.InDelta(t, -1.0, Kendall(x, []float64{5, 4, 3, 2, 1}), 1e-12)

	// 9 concordant, 1 discordant pair out of 10
	assert.InDelta(t, 0.8, Kendall(x, []float64{2, 1, 3, 4, 5}), 1e-12)

	// tau-b with a tie in y: C=8, D=1, tiesY=1 -> 7/sqrt(9*10)
	assert.InDelta(t, 7/math.Sqrt(90), Kendall(x, []float64{2, 1, 3, 5, 5}), 1e-12)

	assert.True(t, math.IsNaN(Kendall(x, []float64{1, 1, 1, 1, 1})))
}

func TestDiff(t *testing.T) {
	assert.Nil(t, Diff([]float64{1}))
	assert.Equal(t, []float64{1, -3, 2}, Diff([]float64{1, 2, -1, 1}))
}

func TestFitAR1(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		phi, c := FitAR1([]float64{1})
		assert.Equal(t, 0.0, phi)
		assert.Equal(t, 0.0, c)
	})

	t.Run("exact recursion", func(t *testing.T) {
		series := []float64{1}
		for i := 0; i < 20; i++ {
			series = append(series, 0.5*series[len(series)-1]+2)
		}
		phi, c := FitAR1(series)
		assert.InDelta(t, 0.5, phi, 1e-9)
		assert.InDelta(t, 2.0, c, 1e-9)
	})

	t.Run("constant series", func(t *testing.T) {
		phi, c := FitAR1([]float64{3, 3, 3, 3})
		assert.Equal(t, 0.0, phi)
		assert.Equal(t, 3.0, c)
	})
}

func TestHalfLife(t *testing.T) {
	series := []float64{8}
	for i := 0; i < 30; i++ {
		series = append(series, 0.5*series[len(series)-1])
	}
	hl, ok := HalfLife(series)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, hl, 1e-9)

	_, ok = HalfLife([]float64{1, 2, 3, 4, 5, 6})
	assert.False(t, ok)
}

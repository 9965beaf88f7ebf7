package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/testutil"
)

func TestCalculateSpread_Methods(t *testing.T) {
	ts := days(4)
	p1 := []float64{10, 12, 11, 13}
	p2 := []float64{5, 5.5, 6, 6.5}

	diff := CalculateSpread("AAA", "BBB", ts, p1, p2, models.SpreadLogDifference)
	ratio := CalculateSpread("AAA", "BBB", ts, p1, p2, models.SpreadLogRatio)

	require.Equal(t, 4, diff.Len())
	require.Equal(t, 4, ratio.Len())
	assert.Equal(t, models.SpreadLogDifference, diff.Method)
	assert.Equal(t, models.SpreadLogRatio, ratio.Method)
	assert.Equal(t, "AAA", diff.Symbol1)
	assert.Equal(t, "BBB", diff.Symbol2)
	for i := range p1 {
		assert.InDelta(t, math.Log(p1[i])-math.Log(p2[i]), diff.Points[i].Value, 1e-15)
		assert.InDelta(t, diff.Points[i].Value, ratio.Points[i].Value, 1e-12)
		assert.True(t, diff.Points[i].Timestamp.Equal(ts[i]))
	}
}

func TestCalculateSpread_DropsInvalidPoints(t *testing.T) {
	ts := days(6)
	p1 := []float64{10, 0, 11, -3, 12, math.NaN()}
	p2 := []float64{5, 5, math.Inf(1), 4, 6, 7}

	spread := CalculateSpread("AAA", "BBB", ts, p1, p2, models.SpreadLogDifference)

	require.Equal(t, 2, spread.Len())
	assert.True(t, spread.Points[0].Timestamp.Equal(ts[0]))
	assert.True(t, spread.Points[1].Timestamp.Equal(ts[4]))
	for _, v := range spread.Values() {
		assert.True(t, models.IsPresent(v))
	}
}

func TestCalculateSpread_StrictlyIncreasingTimestamps(t *testing.T) {
	ts := []time.Time{testutil.Day(0), testutil.Day(1), testutil.Day(1), testutil.Day(0), testutil.Day(2)}
	p := []float64{1, 2, 3, 4, 5}

	spread := CalculateSpread("AAA", "BBB", ts, p, p, "")

	require.Equal(t, 3, spread.Len())
	assert.Equal(t, models.SpreadLogDifference, spread.Method)
	for i := 1; i < spread.Len(); i++ {
		assert.True(t, spread.Points[i].Timestamp.After(spread.Points[i-1].Timestamp))
	}
}

func TestCalculateSpread_Empty(t *testing.T) {
	spread := CalculateSpread("AAA", "BBB", days(3), []float64{0, -1, 0}, []float64{1, 1, 1}, models.SpreadLogRatio)
	assert.True(t, spread.IsEmpty())
	assert.Empty(t, spread.Values())

	spread = CalculateSpread("AAA", "BBB", nil, nil, nil, models.SpreadLogRatio)
	assert.True(t, spread.IsEmpty())
}

func TestCalculateSpreadStats(t *testing.T) {
	t.Run("hedge ratio", func(t *testing.T) {
		walk := testutil.NewSeriesGenerator(8).RandomWalk(3, 60, 0.05)
		p1 := make([]float64, len(walk))
		p2 := make([]float64, len(walk))
		for i, w := range walk {
			p2[i] = math.Exp(w)
			p1[i] = math.Exp(2*w + 0.1)
		}
		ts := days(len(walk))
		spread := CalculateSpread("AAA", "BBB", ts, p1, p2, models.SpreadLogDifference)

		summary := CalculateSpreadStats(p1, p2, spread)
		require.NotNil(t, summary.HedgeRatio)
		assert.InDelta(t, 2.0, *summary.HedgeRatio, 1e-9)
		assert.InDelta(t, meanOf(spread.Values()), summary.Mean, 1e-12)
		assert.Greater(t, summary.StdDev, 0.0)
	})

	t.Run("half life", func(t *testing.T) {
		n := 12
		p1 := make([]float64, n)
		p2 := make([]float64, n)
		for i := range p1 {
			p1[i] = math.Exp(math.Pow(0.5, float64(i)))
			p2[i] = 1
		}
		spread := CalculateSpread("AAA", "BBB", days(n), p1, p2, models.SpreadLogDifference)

		summary := CalculateSpreadStats(p1, p2, spread)
		require.NotNil(t, summary.HalfLife)
		assert.InDelta(t, 1.0, *summary.HalfLife, 1e-6)
		assert.Nil(t, summary.HedgeRatio, "constant second leg has no hedge ratio")
	})
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

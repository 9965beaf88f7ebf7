package testutil

import (
	"math"
	"time"

	"github.com/irfndi/celebrum-pairs/internal/models"
)

// SeriesGenerator is a deterministic pseudo-random source (64-bit LCG with
// Box-Muller normals) so synthetic market data is identical on every platform.
type SeriesGenerator struct {
	state uint64
}

// NewSeriesGenerator creates a generator seeded with seed.
func NewSeriesGenerator(seed uint64) *SeriesGenerator {
	return &SeriesGenerator{state: seed}
}

// Uniform returns a value in (0, 1).
func (g *SeriesGenerator) Uniform() float64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return (float64(g.state>>11) + 0.5) / float64(uint64(1)<<53)
}

// Normal returns a standard normal draw.
func (g *SeriesGenerator) Normal() float64 {
	u1 := g.Uniform()
	u2 := g.Uniform()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// RandomWalk returns n points starting at start with N(0, step^2) increments.
func (g *SeriesGenerator) RandomWalk(start float64, n int, step float64) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = start
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + step*g.Normal()
	}
	return out
}

// AR1 returns n points of x_t = phi*x_{t-1} + e_t starting at zero.
func (g *SeriesGenerator) AR1(phi float64, n int) []float64 {
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = phi*out[i-1] + g.Normal()
	}
	return out
}

// BaseTime is the first timestamp used by synthetic series.
var BaseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns BaseTime shifted by i days.
func Day(i int) time.Time {
	return BaseTime.AddDate(0, 0, i)
}

// Observations converts daily closes into price observations for symbol.
func Observations(symbol string, closes []float64) []models.PriceObservation {
	out := make([]models.PriceObservation, len(closes))
	for i, c := range closes {
		out[i] = models.PriceObservation{
			Symbol:    symbol,
			Timestamp: Day(i),
			Close:     c,
		}
	}
	return out
}

// CointegratedUniverse builds three daily series of n points: X is a random
// walk, Y = 1.1*X + N(0, 1.5^2) noise and Z is an independent random walk.
// Seed 3 with 200 points yields corr(ln X, ln Y) ~ 0.98 and |corr| < 0.3 for Z.
func CointegratedUniverse(seed uint64, n int) (x, y, z []float64) {
	g := NewSeriesGenerator(seed)
	x = g.RandomWalk(100, n, 1)
	y = make([]float64, n)
	for i, v := range x {
		y[i] = 1.1*v + 1.5*g.Normal()
	}
	z = g.RandomWalk(50, n, 1)
	return x, y, z
}

// ScenarioObservations returns CointegratedUniverse(3, n) as observations for
// symbols "X", "Y" and "Z".
func ScenarioObservations(n int) []models.PriceObservation {
	x, y, z := CointegratedUniverse(3, n)
	obs := Observations("X", x)
	obs = append(obs, Observations("Y", y)...)
	obs = append(obs, Observations("Z", z)...)
	return obs
}

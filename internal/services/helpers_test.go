package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/testutil"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func points(values []float64) []models.PricePoint {
	out := make([]models.PricePoint, len(values))
	for i, v := range values {
		out[i] = models.PricePoint{Timestamp: testutil.Day(i), Value: v}
	}
	return out
}

func spreadOf(values []float64) models.SpreadSeries {
	return models.SpreadSeries{
		Symbol1: "AAA",
		Symbol2: "BBB",
		Method:  models.SpreadLogDifference,
		Points:  points(values),
	}
}

func mustPanel(t *testing.T, obs []models.PriceObservation) *models.PricePanel {
	t.Helper()
	panel, err := PivotPrices(obs)
	if err != nil {
		t.Fatalf("PivotPrices: %v", err)
	}
	return panel
}

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = testutil.Day(i)
	}
	return out
}

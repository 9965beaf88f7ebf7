package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/testutil"
)

// MockPriceSource is a testify mock of database.PriceSource.
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) LoadObservations(ctx context.Context, symbols []string, since time.Time) ([]models.PriceObservation, error) {
	args := m.Called(ctx, symbols, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceObservation), args.Error(1)
}

func TestCachedPriceSource(t *testing.T) {
	ctx := context.Background()
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("miss then hit", func(t *testing.T) {
		_, client := testutil.NewTestRedis(t)
		source := &MockPriceSource{}
		source.On("LoadObservations", ctx, []string{"AAA", "BBB"}, since).Return(sampleObservations(), nil).Once()

		cached := NewCachedPriceSource(source, NewRedisPriceCache(client, time.Hour, quietLogger()), "1d", quietLogger())

		first, err := cached.LoadObservations(ctx, []string{"AAA", "BBB"}, since)
		require.NoError(t, err)
		assert.Len(t, first, 3)

		second, err := cached.LoadObservations(ctx, []string{"BBB", "AAA"}, since)
		require.NoError(t, err)
		assert.Len(t, second, 3)

		source.AssertNumberOfCalls(t, "LoadObservations", 1)
	})

	t.Run("empty results are not cached", func(t *testing.T) {
		_, client := testutil.NewTestRedis(t)
		source := &MockPriceSource{}
		source.On("LoadObservations", ctx, []string(nil), since).Return([]models.PriceObservation{}, nil)

		cached := NewCachedPriceSource(source, NewRedisPriceCache(client, time.Hour, quietLogger()), "1d", quietLogger())
		for i := 0; i < 2; i++ {
			observations, err := cached.LoadObservations(ctx, nil, since)
			require.NoError(t, err)
			assert.Empty(t, observations)
		}
		source.AssertNumberOfCalls(t, "LoadObservations", 2)
	})

	t.Run("source error", func(t *testing.T) {
		_, client := testutil.NewTestRedis(t)
		source := &MockPriceSource{}
		source.On("LoadObservations", ctx, []string(nil), since).Return(nil, errors.New("db down"))

		cached := NewCachedPriceSource(source, NewRedisPriceCache(client, time.Hour, quietLogger()), "1d", quietLogger())
		_, err := cached.LoadObservations(ctx, nil, since)
		assert.EqualError(t, err, "db down")
	})

	t.Run("cache unavailable falls through", func(t *testing.T) {
		mr, client := testutil.NewTestRedis(t)
		mr.Close()
		source := &MockPriceSource{}
		source.On("LoadObservations", ctx, []string(nil), since).Return(sampleObservations(), nil)

		cached := NewCachedPriceSource(source, NewRedisPriceCache(client, time.Hour, quietLogger()), "1d", nil)
		observations, err := cached.LoadObservations(ctx, nil, since)
		require.NoError(t, err)
		assert.Len(t, observations, 3)
		source.AssertExpectations(t)
	})
}

package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irfndi/celebrum-pairs/internal/database"
	"github.com/irfndi/celebrum-pairs/internal/models"
)

// CachedPriceSource serves price tables from Redis and falls back to the
// underlying source on a miss. Cache failures are logged and bypassed.
type CachedPriceSource struct {
	source    database.PriceSource
	cache     *RedisPriceCache
	timeframe string
	logger    *logrus.Logger
}

// NewCachedPriceSource wraps source with cache.
func NewCachedPriceSource(source database.PriceSource, cache *RedisPriceCache, timeframe string, logger *logrus.Logger) *CachedPriceSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedPriceSource{
		source:    source,
		cache:     cache,
		timeframe: timeframe,
		logger:    logger,
	}
}

// LoadObservations implements database.PriceSource.
func (s *CachedPriceSource) LoadObservations(ctx context.Context, symbols []string, since time.Time) ([]models.PriceObservation, error) {
	key := s.cache.Key(s.timeframe, symbols, since)

	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Price cache read failed")
	}
	if hit {
		s.logger.WithFields(logrus.Fields{"key": key, "observations": len(cached)}).Debug("Price cache hit")
		return cached, nil
	}

	observations, err := s.source.LoadObservations(ctx, symbols, since)
	if err != nil {
		return nil, err
	}
	if len(observations) > 0 {
		if err := s.cache.Set(ctx, key, observations); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Price cache write failed")
		}
	}
	return observations, nil
}

package services

import (
	"sort"

	"github.com/irfndi/celebrum-pairs/internal/config"
	"github.com/irfndi/celebrum-pairs/internal/models"
)

// PairEvaluation carries one candidate through the cointegration, spread
// and stationarity stages. Stationarity is nil when the spread stage was
// never reached.
type PairEvaluation struct {
	Cointegration models.CointegrationResult
	Spread        models.SpreadSeries
	Stationarity  *models.StationarityResult
	SpreadStats   models.SpreadStats
}

// Accepted reports whether the evaluation satisfies every shortlist rule.
// Stationarity is advisory unless cfg.RequireStationarity is set.
func (e PairEvaluation) Accepted(cfg config.PairsConfig) bool {
	c := e.Cointegration
	if !(c.Correlation > cfg.CorrelationThreshold) {
		return false
	}
	if !c.IsCointegrated || c.Failed() || c.DataPoints < cfg.MinDataPoints {
		return false
	}
	if e.Spread.IsEmpty() || e.Stationarity == nil {
		return false
	}
	if cfg.RequireStationarity && !e.Stationarity.IsStationary {
		return false
	}
	return true
}

// ShortlistPairs filters evaluations by the acceptance rules, re-sorts the
// survivors by descending correlation (stable, so input order breaks ties)
// and keeps at most cfg.MaxPairs.
func ShortlistPairs(evaluations []PairEvaluation, cfg config.PairsConfig) []models.ShortlistedPair {
	shortlist := make([]models.ShortlistedPair, 0)
	for _, e := range evaluations {
		if !e.Accepted(cfg) {
			continue
		}
		shortlist = append(shortlist, models.ShortlistedPair{
			CointegrationResult: e.Cointegration,
			Stationarity:        *e.Stationarity,
			SpreadDataPoints:    e.Spread.Len(),
			SpreadStats:         e.SpreadStats,
		})
	}

	sort.SliceStable(shortlist, func(i, j int) bool {
		return shortlist[i].Correlation > shortlist[j].Correlation
	})

	if cfg.MaxPairs > 0 && len(shortlist) > cfg.MaxPairs {
		shortlist = shortlist[:cfg.MaxPairs]
	}
	for i := range shortlist {
		shortlist[i].ShortlistRank = i + 1
	}
	return shortlist
}

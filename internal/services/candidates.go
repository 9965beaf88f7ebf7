package services

import (
	"math"
	"sort"

	"github.com/irfndi/celebrum-pairs/internal/models"
)

// SelectPairCandidates returns every unordered pair whose correlation is
// present and strictly above threshold, sorted by descending correlation.
// Ties keep lexical pair order and ranks are 1-based.
func SelectPairCandidates(matrix *models.CorrelationMatrix, threshold float64) []models.PairCandidate {
	candidates := make([]models.PairCandidate, 0)
	if matrix == nil {
		return candidates
	}

	order := make([]int, len(matrix.Symbols))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return matrix.Symbols[order[a]] < matrix.Symbols[order[b]]
	})

	for a := 0; a < len(order); a++ {
		for b := a + 1; b < len(order); b++ {
			i, j := order[a], order[b]
			corr := matrix.Matrix[i][j]
			if math.IsNaN(corr) || !(corr > threshold) {
				continue
			}
			candidates = append(candidates, models.PairCandidate{
				Symbol1:     matrix.Symbols[i],
				Symbol2:     matrix.Symbols[j],
				Correlation: corr,
			})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Correlation > candidates[b].Correlation
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}

	return candidates
}

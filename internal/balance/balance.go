// Package balance splits a full matchmaking pool into two even teams.
package balance

import (
	"errors"
	"math"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

const (
	// TeamSize is the number of players per side
	TeamSize = 4

	// PoolSize is the number of players a split requires
	PoolSize = 2 * TeamSize

	// WarnThreshold is the rating-sum difference above which the caller
	// should log a warning; imbalance is never a hard failure
	WarnThreshold = 50.0
)

// ErrWrongPoolSize is returned when the input is not exactly eight players
var ErrWrongPoolSize = errors.New("balance requires exactly eight players")

// Split exhaustively enumerates every C(8,4) way to divide the eight
// entries into two four-player sides and returns the split minimizing the
// absolute difference between summed ratings. Ties resolve to the first
// split in enumeration order, so the result is deterministic.
func Split(entries []models.QueueEntry) (teamA, teamB []models.QueueEntry, imbalance float64, err error) {
	if len(entries) != PoolSize {
		return nil, nil, 0, ErrWrongPoolSize
	}

	ratings := make([]float64, PoolSize)
	var total float64
	for i, e := range entries {
		ratings[i] = e.Rating
		total += e.Rating
	}

	bestDiff := math.Inf(1)
	var bestMask int

	// Each mask with four bits set is one candidate team A.
	for mask := 0; mask < 1<<PoolSize; mask++ {
		if popCount(mask) != TeamSize {
			continue
		}

		var sumA float64
		for i := 0; i < PoolSize; i++ {
			if mask&(1<<i) != 0 {
				sumA += ratings[i]
			}
		}

		diff := math.Abs(2*sumA - total)
		if diff < bestDiff {
			bestDiff = diff
			bestMask = mask
		}
	}

	teamA = make([]models.QueueEntry, 0, TeamSize)
	teamB = make([]models.QueueEntry, 0, TeamSize)
	for i := 0; i < PoolSize; i++ {
		if bestMask&(1<<i) != 0 {
			teamA = append(teamA, entries[i])
		} else {
			teamB = append(teamB, entries[i])
		}
	}

	return teamA, teamB, bestDiff, nil
}

func popCount(mask int) int {
	count := 0
	for mask != 0 {
		count += mask & 1
		mask >>= 1
	}
	return count
}

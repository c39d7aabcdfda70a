package balance

import (
	"fmt"
	"math"
	"testing"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/stretchr/testify/suite"
)

type BalanceTestSuite struct {
	suite.Suite
}

func TestBalanceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceTestSuite))
}

func entriesWithRatings(ratings []float64) []models.QueueEntry {
	entries := make([]models.QueueEntry, len(ratings))
	for i, r := range ratings {
		entries[i] = models.QueueEntry{
			PlayerID: fmt.Sprintf("player-%d", i+1),
			Rating:   r,
		}
	}
	return entries
}

func (s *BalanceTestSuite) TestWrongPoolSize() {
	_, _, _, err := Split(entriesWithRatings([]float64{1000, 1000}))
	s.ErrorIs(err, ErrWrongPoolSize)
}

func (s *BalanceTestSuite) TestEqualRatings() {
	// Eight identical ratings split at zero imbalance, first four on team A.
	teamA, teamB, imbalance, err := Split(entriesWithRatings([]float64{
		1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000,
	}))
	s.Require().NoError(err)
	s.Zero(imbalance)
	s.Len(teamA, 4)
	s.Len(teamB, 4)

	var sumA, sumB float64
	for i := range teamA {
		sumA += teamA[i].Rating
		sumB += teamB[i].Rating
	}
	s.Equal(4000.0, sumA)
	s.Equal(4000.0, sumB)

	s.Equal("player-1", teamA[0].PlayerID)
	s.Equal("player-4", teamA[3].PlayerID)
	s.Equal("player-5", teamB[0].PlayerID)
}

func (s *BalanceTestSuite) TestKnownBestSplit() {
	// 1200+800 vs 1100+900 style pairings beat any naive grouping.
	teamA, teamB, imbalance, err := Split(entriesWithRatings([]float64{
		1200, 1100, 1050, 1000, 950, 900, 850, 800,
	}))
	s.Require().NoError(err)
	s.Len(teamA, 4)
	s.Len(teamB, 4)

	var sumA, sumB float64
	for i := range teamA {
		sumA += teamA[i].Rating
		sumB += teamB[i].Rating
	}
	s.Equal(imbalance, math.Abs(sumA-sumB))
	s.LessOrEqual(imbalance, 50.0)
}

func (s *BalanceTestSuite) TestExhaustiveOptimum() {
	// The chosen split must be at least as good as every one of the 70
	// possible splits, checked by brute force.
	ratings := []float64{1337, 1204, 988, 1502, 760, 1099, 1410, 905}
	entries := entriesWithRatings(ratings)

	_, _, imbalance, err := Split(entries)
	s.Require().NoError(err)

	var total float64
	for _, r := range ratings {
		total += r
	}

	for mask := 0; mask < 256; mask++ {
		if popCount(mask) != 4 {
			continue
		}
		var sumA float64
		for i := 0; i < 8; i++ {
			if mask&(1<<i) != 0 {
				sumA += ratings[i]
			}
		}
		diff := math.Abs(2*sumA - total)
		s.LessOrEqual(imbalance, diff)
	}
}

func (s *BalanceTestSuite) TestDeterministic() {
	ratings := []float64{1000, 1000, 1100, 900, 1050, 950, 1000, 1000}
	first, _, _, err := Split(entriesWithRatings(ratings))
	s.Require().NoError(err)

	for i := 0; i < 10; i++ {
		again, _, _, err := Split(entriesWithRatings(ratings))
		s.Require().NoError(err)
		s.Equal(first, again)
	}
}

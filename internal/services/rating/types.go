package rating

import (
	"github.com/KirkDiggler/ranked-arena/internal/coin"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// Config holds configuration for the rating service
type Config struct {
	// Repository dependencies
	SessionRepo sessionRepo.Repository
	PlayerRepo  playerRepo.Repository

	// Service dependencies
	Flipper coin.Flipper
}

// FinalizeInput contains parameters for finalizing a decided session
type FinalizeInput struct {
	SessionID string
}

// PlayerDelta is one player's applied rating change
type PlayerDelta struct {
	PlayerID  string
	IGN       string
	Won       bool
	OldRating float64
	NewRating float64
	Delta     float64
	OldSigma  float64
	NewSigma  float64
}

// FinalizeOutput reports the applied updates
type FinalizeOutput struct {
	// WinningSide is the roster the outcome favored
	WinningSide models.TeamSide

	// Deltas holds one entry per roster member, team A first
	Deltas []PlayerDelta

	// Session is the session after it was marked processed
	Session *models.Session
}

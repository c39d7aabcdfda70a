package vote

import (
	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// Config holds configuration for the vote service
type Config struct {
	// Quorum is the distinct-voter count that cancels a session.
	// Defaults to DefaultQuorum when zero.
	Quorum int

	// Repository dependencies
	SessionRepo sessionRepo.Repository
}

// CastVoteInput contains parameters for casting a cancellation vote
type CastVoteInput struct {
	SessionID string
	PlayerID  string
}

// CastVoteOutput reports the result of a recorded vote
type CastVoteOutput struct {
	// VoteCount is the distinct-voter count after this vote
	VoteCount int

	// Quorum is the count at which cancellation fires
	Quorum int

	// Canceled is true when this vote reached the quorum
	Canceled bool

	// Session is the session after the update
	Session *models.Session
}

package notify

import (
	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
)

// MatchFormedEvent announces a new session
type MatchFormedEvent struct {
	// Session is the formed session with both rosters set
	Session *models.Session
}

// ResultsEvent announces a finalized session
type ResultsEvent struct {
	// Session is the processed session
	Session *models.Session

	// WinningSide is the roster that won
	WinningSide models.TeamSide

	// Deltas are the per-player rating changes, team A first
	Deltas []rating.PlayerDelta
}

// SessionClosedEvent announces a session that ended without an outcome
type SessionClosedEvent struct {
	// Session is the closed session
	Session *models.Session

	// Reason is the final status that closed the session
	Reason models.SessionStatus
}

// QueueDropEvent notifies a player their queue entry expired
type QueueDropEvent struct {
	// PlayerID is the dropped player
	PlayerID string

	// Mode is the queue the player was dropped from
	Mode models.GameMode
}

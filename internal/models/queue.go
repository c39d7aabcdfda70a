package models

import (
	"time"
)

// GameMode identifies a matchmaking pool
type GameMode string

const (
	// GameModeRanked is the plain ranked pool with no draft
	GameModeRanked GameMode = "ranked_arena"

	// GameModeDraft is the pool whose sessions run a captain draft first
	GameModeDraft GameMode = "draft_arena"
)

// AllGameModes lists every matchmaking pool, in scan order
var AllGameModes = []GameMode{GameModeRanked, GameModeDraft}

// Valid reports whether the mode names a known pool
func (m GameMode) Valid() bool {
	return m == GameModeRanked || m == GameModeDraft
}

// QueueEntry represents a player waiting in a matchmaking pool.
// The rating fields are a snapshot frozen at join time.
type QueueEntry struct {
	// PlayerID is the Discord user ID of the queued player
	PlayerID string

	// IGN is the player's in-game name at join time
	IGN string

	// Rating is the player's mean skill at join time
	Rating float64

	// Sigma is the player's rating uncertainty at join time
	Sigma float64

	// GamesPlayed is the player's match count at join time
	GamesPlayed int

	// Mode is the pool the player is waiting in
	Mode GameMode

	// JoinedAt is when the player entered the queue
	JoinedAt time.Time
}

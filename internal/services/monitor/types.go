package monitor

import (
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/oracle"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// Config holds configuration for the monitor service
type Config struct {
	// InitialDelayRanked is how long to wait before the first poll of a
	// ranked session; the match cannot finish earlier than this
	InitialDelayRanked time.Duration

	// InitialDelayDraft is the longer first-poll delay for draft
	// sessions, which start after the draft itself
	InitialDelayDraft time.Duration

	// PollInterval is the time between oracle polls
	PollInterval time.Duration

	// Ceiling is the hard monitoring limit; past it the session is
	// forced to timed_out
	Ceiling time.Duration

	// MaxFailures is how many consecutive oracle errors the watcher
	// tolerates before giving up and leaving the session pending
	MaxFailures int

	// FailureBackoff is the extra wait added per consecutive failure
	FailureBackoff time.Duration

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Service dependencies
	Oracle oracle.Client
	Clock  clock.Clock
}

// StartInput contains parameters for starting a session watcher
type StartInput struct {
	Session *models.Session
}

// StartOutput reports the started watcher
type StartOutput struct {
	// Started is false when a watcher was already running
	Started bool

	// Done closes when the watcher exits; callers can join on it
	Done <-chan struct{}
}

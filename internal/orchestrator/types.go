package orchestrator

import (
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/notify"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/services/draft"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	"github.com/KirkDiggler/ranked-arena/internal/services/monitor"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
)

// Config holds configuration for the orchestrator
type Config struct {
	// ScanInterval paces the queue and reconcile loops
	ScanInterval time.Duration

	// DraftSweepInterval paces the draft timeout sweep
	DraftSweepInterval time.Duration

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Service dependencies
	Matchmaking matchmaking.Service
	Draft       draft.Service
	Rating      rating.Service
	Monitor     monitor.Service
	Notifier    notify.Notifier
}

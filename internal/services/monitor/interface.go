package monitor

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ranked-arena/internal/services/monitor Service

import (
	"context"
)

// Service runs one cancelable background watcher per live session,
// keyed and joinable by session ID
type Service interface {
	// Start launches a watcher for the session unless one is already
	// running. The watcher polls the oracle after a mode-dependent
	// initial delay and stops on an outcome, an external cancellation,
	// or the monitoring ceiling.
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Watching reports whether a watcher is running for the session
	Watching(sessionID string) bool

	// Stop cancels the session's watcher if one is running
	Stop(sessionID string)

	// StopAll cancels every watcher and waits for them to exit
	StopAll()
}

package notify

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/ranked-arena/internal/notify Notifier

import (
	"context"
)

// Notifier delivers arena announcements to wherever players are watching
type Notifier interface {
	// AnnounceMatchFormed announces a freshly formed session and its rosters
	AnnounceMatchFormed(ctx context.Context, event *MatchFormedEvent) error

	// AnnounceResults announces a finalized session and its rating changes
	AnnounceResults(ctx context.Context, event *ResultsEvent) error

	// AnnounceSessionClosed announces a session that ended without a result
	AnnounceSessionClosed(ctx context.Context, event *SessionClosedEvent) error

	// AnnounceQueueDrop notifies a player their queue entry expired
	AnnounceQueueDrop(ctx context.Context, event *QueueDropEvent) error
}

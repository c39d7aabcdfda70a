package notify

import (
	"context"
	"log"
)

// LogNotifier writes announcements to the process log. It stands in
// when no chat transport is configured.
type LogNotifier struct {
	renderer *Renderer
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		renderer: NewRenderer(),
	}
}

// AnnounceMatchFormed logs a formed session and its rosters
func (n *LogNotifier) AnnounceMatchFormed(_ context.Context, event *MatchFormedEvent) error {
	log.Printf("notify: %s session %s\n%s",
		event.Session.Mode, event.Session.ID, n.renderer.MatchFormedBody(event.Session))
	return nil
}

// AnnounceResults logs a finalized session's rating changes
func (n *LogNotifier) AnnounceResults(_ context.Context, event *ResultsEvent) error {
	for _, delta := range event.Deltas {
		log.Printf("notify: session %s result: %s",
			event.Session.ID, n.renderer.ResultLine(delta.IGN, delta.Delta, delta.NewRating))
	}
	return nil
}

// AnnounceSessionClosed logs a session that ended with no result
func (n *LogNotifier) AnnounceSessionClosed(_ context.Context, event *SessionClosedEvent) error {
	log.Printf("notify: session %s closed (%s): %s",
		event.Session.ID, event.Reason, n.renderer.ClosedMessage(event.Reason))
	return nil
}

// AnnounceQueueDrop logs an expired queue entry
func (n *LogNotifier) AnnounceQueueDrop(_ context.Context, event *QueueDropEvent) error {
	log.Printf("notify: player %s dropped from %s queue", event.PlayerID, event.Mode)
	return nil
}

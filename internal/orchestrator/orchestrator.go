// Package orchestrator runs the background loops that move sessions
// through their lifecycle: queue sweeps and match formation, draft
// timeout sweeps, and reconciliation of finished sessions.
package orchestrator

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/metrics"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/notify"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/services/draft"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	"github.com/KirkDiggler/ranked-arena/internal/services/monitor"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
)

const (
	// DefaultScanInterval paces the queue and reconcile loops
	DefaultScanInterval = 20 * time.Second

	// DefaultDraftSweepInterval paces the draft timeout sweep
	DefaultDraftSweepInterval = 60 * time.Second

	conflictRetries = 3
)

// Orchestrator drives the periodic loops
type Orchestrator struct {
	scanInterval       time.Duration
	draftSweepInterval time.Duration

	sessionRepo sessionRepo.Repository
	matchmaking matchmaking.Service
	draft       draft.Service
	rating      rating.Service
	monitor     monitor.Service
	notifier    notify.Notifier

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Matchmaking == nil {
		return nil, ErrNilMatchmaking
	}

	if cfg.Draft == nil {
		return nil, ErrNilDraft
	}

	if cfg.Rating == nil {
		return nil, ErrNilRating
	}

	if cfg.Monitor == nil {
		return nil, ErrNilMonitor
	}

	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}

	o := &Orchestrator{
		scanInterval:       cfg.ScanInterval,
		draftSweepInterval: cfg.DraftSweepInterval,
		sessionRepo:        cfg.SessionRepo,
		matchmaking:        cfg.Matchmaking,
		draft:              cfg.Draft,
		rating:             cfg.Rating,
		monitor:            cfg.Monitor,
		notifier:           cfg.Notifier,
	}

	if o.scanInterval <= 0 {
		o.scanInterval = DefaultScanInterval
	}
	if o.draftSweepInterval <= 0 {
		o.draftSweepInterval = DefaultDraftSweepInterval
	}

	return o, nil
}

// Start launches the background loops. It returns immediately.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.stopped = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(3)
	go o.loop(loopCtx, &wg, o.scanInterval, "queue", o.ScanQueues)
	go o.loop(loopCtx, &wg, o.scanInterval, "reconcile", o.Reconcile)
	go o.loop(loopCtx, &wg, o.draftSweepInterval, "draft", o.SweepDrafts)

	stopped := o.stopped
	go func() {
		wg.Wait()
		close(stopped)
	}()
}

// Stop cancels the loops, waits for them, then joins the watchers
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	stopped := o.stopped
	o.cancel = nil
	o.stopped = nil
	o.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-stopped
	o.monitor.StopAll()
}

func (o *Orchestrator) loop(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, name string, pass func(context.Context) error) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := pass(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				metrics.RecordScanError(name)
				log.Printf("orchestrator: %s pass failed: %v", name, err)
			}
			metrics.RecordScanDuration(name, float64(time.Since(start).Milliseconds()))
		}
	}
}

// ScanQueues expires stale entries and forms as many matches as the
// pools allow
func (o *Orchestrator) ScanQueues(ctx context.Context) error {
	swept, err := o.matchmaking.SweepExpired(ctx, &matchmaking.SweepExpiredInput{})
	if err != nil {
		return err
	}
	metrics.RecordQueueSweep()

	for _, entry := range swept.Removed {
		metrics.RecordQueueDrop(string(entry.Mode))
		if err := o.notifier.AnnounceQueueDrop(ctx, &notify.QueueDropEvent{
			PlayerID: entry.PlayerID,
			Mode:     entry.Mode,
		}); err != nil {
			log.Printf("orchestrator: queue drop notice for %s failed: %v", entry.PlayerID, err)
		}
	}

	for _, mode := range models.AllGameModes {
		for {
			formed, err := o.matchmaking.TryMatch(ctx, &matchmaking.TryMatchInput{Mode: mode})
			if err != nil {
				return err
			}
			if !formed.Formed {
				break
			}

			metrics.RecordMatchFormed(string(mode))
			if err := o.notifier.AnnounceMatchFormed(ctx, &notify.MatchFormedEvent{
				Session: formed.Session,
			}); err != nil {
				log.Printf("orchestrator: match announcement for %s failed: %v", formed.Session.ID, err)
			}

			// Ranked sessions are playable immediately. Draft sessions
			// wait until the draft completes; Reconcile picks them up.
			if readyToWatch(formed.Session) {
				o.startWatcher(ctx, formed.Session)
			}
		}
	}

	o.updateQueueDepths(ctx)

	return nil
}

// Reconcile walks the open sessions and settles every one whose
// lifecycle has something to do: rate decided sessions, announce and
// retire closed ones, and re-attach watchers lost to a restart
func (o *Orchestrator) Reconcile(ctx context.Context) error {
	open, err := o.sessionRepo.ListOpenSessions(ctx, &sessionRepo.ListOpenSessionsInput{})
	if err != nil {
		return err
	}

	for _, sess := range open.Sessions {
		switch {
		case sess.Status.Decided():
			o.settleDecided(ctx, sess)

		case sess.Status == models.SessionStatusCanceled || sess.Status.TimedOut():
			o.retireClosed(ctx, sess)

		case sess.Status == models.SessionStatusPending:
			if readyToWatch(sess) && !o.monitor.Watching(sess.ID) {
				o.startWatcher(ctx, sess)
			}
		}
	}

	return nil
}

// SweepDrafts pushes stalled drafts into their timeout status. The
// closed sessions flow through Reconcile for announcement.
func (o *Orchestrator) SweepDrafts(ctx context.Context) error {
	swept, err := o.draft.SweepTimeouts(ctx, &draft.SweepTimeoutsInput{})
	if err != nil {
		return err
	}

	for _, sess := range swept.TimedOut {
		if sess.Draft != nil {
			metrics.RecordDraftTimeout(string(sess.Draft.Stage))
		}
		log.Printf("orchestrator: draft session %s timed out (%s)", sess.ID, sess.Status)
	}

	return nil
}

// settleDecided applies ratings to a decided session and announces the
// result. Draft sessions that never finished their draft carry no
// playable match, so they retire without rating changes.
func (o *Orchestrator) settleDecided(ctx context.Context, sess *models.Session) {
	if sess.Mode == models.GameModeDraft && !draftComplete(sess) {
		log.Printf("orchestrator: session %s decided before its draft finished, retiring unrated", sess.ID)
		if err := o.markProcessed(ctx, sess.ID); err != nil {
			log.Printf("orchestrator: session %s retire failed: %v", sess.ID, err)
		}
		return
	}

	finalized, err := o.rating.Finalize(ctx, &rating.FinalizeInput{SessionID: sess.ID})
	if err != nil {
		if errors.Is(err, rating.ErrAlreadyProcessed) {
			return
		}
		log.Printf("orchestrator: session %s finalize failed: %v", sess.ID, err)
		return
	}

	metrics.RecordSessionFinalized(string(finalized.WinningSide))
	for _, delta := range finalized.Deltas {
		metrics.RecordRatingDelta(delta.Delta)
	}

	if err := o.notifier.AnnounceResults(ctx, &notify.ResultsEvent{
		Session:     finalized.Session,
		WinningSide: finalized.WinningSide,
		Deltas:      finalized.Deltas,
	}); err != nil {
		log.Printf("orchestrator: results announcement for %s failed: %v", sess.ID, err)
	}
}

// retireClosed announces a canceled or timed out session once, then
// moves it to processed so it leaves the open set
func (o *Orchestrator) retireClosed(ctx context.Context, sess *models.Session) {
	if !sess.Announced {
		if err := o.notifier.AnnounceSessionClosed(ctx, &notify.SessionClosedEvent{
			Session: sess,
			Reason:  sess.Status,
		}); err != nil {
			// Leave Announced unset so the next pass tries again
			log.Printf("orchestrator: closed announcement for %s failed: %v", sess.ID, err)
			return
		}

		if sess.Status == models.SessionStatusCanceled {
			metrics.RecordSessionCanceled()
		} else {
			metrics.RecordSessionTimedOut()
		}
	}

	if err := o.markProcessed(ctx, sess.ID); err != nil {
		log.Printf("orchestrator: session %s retire failed: %v", sess.ID, err)
	}
}

func (o *Orchestrator) startWatcher(ctx context.Context, sess *models.Session) {
	started, err := o.monitor.Start(ctx, &monitor.StartInput{Session: sess})
	if err != nil {
		log.Printf("orchestrator: watcher for %s failed to start: %v", sess.ID, err)
		return
	}
	if started.Started {
		log.Printf("orchestrator: watching session %s", sess.ID)
	}
}

func (o *Orchestrator) updateQueueDepths(ctx context.Context) {
	status, err := o.matchmaking.QueueStatus(ctx, &matchmaking.QueueStatusInput{})
	if err != nil {
		log.Printf("orchestrator: queue status read failed: %v", err)
		return
	}

	for _, mode := range models.AllGameModes {
		metrics.UpdateQueueDepth(string(mode), len(status.Entries[mode]))
	}
}

func (o *Orchestrator) markProcessed(ctx context.Context, sessionID string) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		_, err = o.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: sessionID,
			Mutate: func(sess *models.Session) error {
				sess.Announced = true
				sess.Status = models.SessionStatusProcessed
				return nil
			},
		})
		if !errors.Is(err, sessionRepo.ErrConflict) {
			break
		}
	}
	return err
}

// readyToWatch reports whether the session has a playable match the
// oracle could observe
func readyToWatch(sess *models.Session) bool {
	if sess.Status != models.SessionStatusPending {
		return false
	}
	if sess.Mode == models.GameModeDraft {
		return draftComplete(sess)
	}
	return true
}

func draftComplete(sess *models.Session) bool {
	return sess.Draft != nil && sess.Draft.Stage == models.DraftStageComplete
}

package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/oracle"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

const (
	// DefaultInitialDelayRanked matches the shortest possible match length
	DefaultInitialDelayRanked = 5 * time.Minute

	// DefaultInitialDelayDraft adds the draft setup time
	DefaultInitialDelayDraft = 8 * time.Minute

	// DefaultPollInterval is the time between oracle polls
	DefaultPollInterval = 10 * time.Second

	// DefaultCeiling is the hard monitoring limit
	DefaultCeiling = 30 * time.Minute

	// DefaultMaxFailures bounds consecutive oracle errors
	DefaultMaxFailures = 5

	// DefaultFailureBackoff is the extra wait added per failure
	DefaultFailureBackoff = 5 * time.Second

	// conflictRetries bounds CAS retries before giving up
	conflictRetries = 3
)

// watcher is one running session monitor
type watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// service implements the Service interface
type service struct {
	initialDelayRanked time.Duration
	initialDelayDraft  time.Duration
	pollInterval       time.Duration
	ceiling            time.Duration
	maxFailures        int
	failureBackoff     time.Duration

	sessionRepo sessionRepo.Repository
	oracle      oracle.Client
	clock       clock.Clock

	mu       sync.Mutex
	watchers map[string]*watcher
}

// NewService creates a new monitor service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Oracle == nil {
		return nil, ErrNilOracle
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	svc := &service{
		initialDelayRanked: cfg.InitialDelayRanked,
		initialDelayDraft:  cfg.InitialDelayDraft,
		pollInterval:       cfg.PollInterval,
		ceiling:            cfg.Ceiling,
		maxFailures:        cfg.MaxFailures,
		failureBackoff:     cfg.FailureBackoff,
		sessionRepo:        cfg.SessionRepo,
		oracle:             cfg.Oracle,
		clock:              cfg.Clock,
		watchers:           make(map[string]*watcher),
	}

	if svc.initialDelayRanked <= 0 {
		svc.initialDelayRanked = DefaultInitialDelayRanked
	}
	if svc.initialDelayDraft <= 0 {
		svc.initialDelayDraft = DefaultInitialDelayDraft
	}
	if svc.pollInterval <= 0 {
		svc.pollInterval = DefaultPollInterval
	}
	if svc.ceiling <= 0 {
		svc.ceiling = DefaultCeiling
	}
	if svc.maxFailures <= 0 {
		svc.maxFailures = DefaultMaxFailures
	}
	if svc.failureBackoff <= 0 {
		svc.failureBackoff = DefaultFailureBackoff
	}

	return svc, nil
}

// Start launches a watcher for the session unless one is already running
func (s *service) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	sess := input.Session
	if len(sess.TeamA) == 0 {
		return nil, ErrEmptyRoster
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.watchers[sess.ID]; ok {
		return &StartOutput{Started: false, Done: existing.done}, nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w := &watcher{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.watchers[sess.ID] = w

	// The first team A member is the player whose match history decides
	// the session
	monitored := sess.TeamA[0].IGN
	mode := sess.Mode

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			delete(s.watchers, sess.ID)
			s.mu.Unlock()
			close(w.done)
		}()
		s.run(watchCtx, sess.ID, monitored, mode)
	}()

	return &StartOutput{Started: true, Done: w.done}, nil
}

// Watching reports whether a watcher is running for the session
func (s *service) Watching(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watchers[sessionID]
	return ok
}

// Stop cancels the session's watcher if one is running
func (s *service) Stop(sessionID string) {
	s.mu.Lock()
	w, ok := s.watchers[sessionID]
	s.mu.Unlock()

	if ok {
		w.cancel()
		<-w.done
	}
}

// StopAll cancels every watcher and waits for them to exit
func (s *service) StopAll() {
	s.mu.Lock()
	running := make([]*watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		w.cancel()
		running = append(running, w)
	}
	s.mu.Unlock()

	for _, w := range running {
		<-w.done
	}
}

// run is one watcher's poll loop
func (s *service) run(ctx context.Context, sessionID, monitored string, mode models.GameMode) {
	delay := s.initialDelayRanked
	if mode == models.GameModeDraft {
		delay = s.initialDelayDraft
	}

	if !s.sleep(ctx, delay) {
		return
	}

	failures := 0
	for {
		if done := s.poll(ctx, sessionID, monitored, mode, &failures); done {
			return
		}

		if !s.sleep(ctx, s.pollInterval) {
			return
		}
	}
}

// poll runs one monitoring pass and reports whether the watcher is done
func (s *service) poll(ctx context.Context, sessionID, monitored string, mode models.GameMode, failures *int) bool {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true
		}
		log.Printf("monitor: session %s read failed: %v", sessionID, err)
		*failures++
		return *failures >= s.maxFailures
	}

	// Observe external cancellation or any other final transition and
	// stop promptly
	if sess.Status != models.SessionStatusPending {
		log.Printf("monitor: session %s reached %s externally, stopping", sessionID, sess.Status)
		return true
	}

	// The ceiling is absolute from match formation, so watcher restarts
	// after oracle failures never extend a session's monitoring window
	if s.clock.Now().Sub(sess.CreatedAt) > s.ceiling {
		s.forceTimeout(ctx, sessionID)
		return true
	}

	observed, err := s.oracle.Observe(ctx, &oracle.ObserveInput{
		SessionID: sessionID,
		IGN:       monitored,
		Mode:      mode,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true
		}
		*failures++
		log.Printf("monitor: session %s oracle error (%d/%d): %v",
			sessionID, *failures, s.maxFailures, err)
		if *failures >= s.maxFailures {
			// Leave the session pending for the next scan
			return true
		}
		return !s.sleep(ctx, time.Duration(*failures)*s.failureBackoff)
	}
	*failures = 0

	switch observed.Outcome {
	case oracle.OutcomeStillPlaying:
		return false

	case oracle.OutcomeUnknown:
		log.Printf("monitor: session %s match had no readable outcome", sessionID)
		return true

	case oracle.OutcomeTeamA, oracle.OutcomeTeamB:
		claimed, err := s.sessionRepo.ClaimFingerprint(ctx, &sessionRepo.ClaimFingerprintInput{
			Fingerprint: observed.Fingerprint,
			SessionID:   sessionID,
		})
		if err != nil {
			log.Printf("monitor: session %s fingerprint claim failed: %v", sessionID, err)
			*failures++
			return *failures >= s.maxFailures
		}
		if !claimed.Claimed {
			// The same real-world match already decided another session;
			// keep waiting for ours
			return false
		}

		s.recordOutcome(ctx, sessionID, observed.Outcome)
		return true
	}

	return false
}

// sleep waits for the duration unless the context cancels first
func (s *service) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// forceTimeout moves a still-pending session to timed_out
func (s *service) forceTimeout(ctx context.Context, sessionID string) {
	err := s.updatePending(ctx, sessionID, models.SessionStatusTimedOut)
	if err != nil && !errors.Is(err, errNoLongerPending) {
		log.Printf("monitor: session %s timeout write failed: %v", sessionID, err)
		return
	}
	log.Printf("monitor: session %s timed out after %s", sessionID, s.ceiling)
}

// recordOutcome moves a still-pending session to its decided status
func (s *service) recordOutcome(ctx context.Context, sessionID string, outcome oracle.Outcome) {
	status := models.SessionStatusTeamAWon
	if outcome == oracle.OutcomeTeamB {
		status = models.SessionStatusTeamBWon
	}

	err := s.updatePending(ctx, sessionID, status)
	if err != nil {
		if !errors.Is(err, errNoLongerPending) {
			log.Printf("monitor: session %s outcome write failed: %v", sessionID, err)
		}
		return
	}
	log.Printf("monitor: session %s decided: %s", sessionID, status)
}

// updatePending transitions a pending session to the given status
func (s *service) updatePending(ctx context.Context, sessionID string, status models.SessionStatus) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		_, err = s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: sessionID,
			Mutate: func(sess *models.Session) error {
				if sess.Status != models.SessionStatusPending {
					return errNoLongerPending
				}
				sess.Status = status
				return nil
			},
		})
		if !errors.Is(err, sessionRepo.ErrConflict) {
			break
		}
	}
	return err
}

package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/balance"
	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/common/uuid"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	queueRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/queue"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// DefaultQueueTimeout is how long a player may wait before being swept
const DefaultQueueTimeout = 60 * time.Minute

// service implements the Service interface
type service struct {
	queueTimeout    time.Duration
	draftOptionPool []string
	queueRepo       queueRepo.Repository
	playerRepo      playerRepo.Repository
	sessionRepo     sessionRepo.Repository
	clock           clock.Clock
	uuidGenerator   uuid.UUID
}

// NewService creates a new matchmaking service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.QueueRepo == nil {
		return nil, ErrNilQueueRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if len(cfg.DraftOptionPool) == 0 {
		return nil, ErrEmptyOptionPool
	}

	queueTimeout := cfg.QueueTimeout
	if queueTimeout <= 0 {
		queueTimeout = DefaultQueueTimeout
	}

	return &service{
		queueTimeout:    queueTimeout,
		draftOptionPool: cfg.DraftOptionPool,
		queueRepo:       cfg.QueueRepo,
		playerRepo:      cfg.PlayerRepo,
		sessionRepo:     cfg.SessionRepo,
		clock:           cfg.Clock,
		uuidGenerator:   cfg.UUIDGenerator,
	}, nil
}

// Join enqueues a registered player into a mode's pool
func (s *service) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if !input.Mode.Valid() {
		return nil, ErrInvalidMode
	}

	profile, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	inSession, err := s.playerInOngoingSession(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if inSession {
		return nil, ErrAlreadyInSession
	}

	entry := &models.QueueEntry{
		PlayerID:    profile.ID,
		IGN:         profile.IGN,
		Rating:      profile.Rating,
		Sigma:       profile.Sigma,
		GamesPlayed: profile.GamesPlayed,
		Mode:        input.Mode,
		JoinedAt:    s.clock.Now(),
	}

	err = s.queueRepo.InsertEntry(ctx, &queueRepo.InsertEntryInput{
		Entry: entry,
	})
	if err != nil {
		if errors.Is(err, queueRepo.ErrAlreadyQueued) {
			return nil, ErrAlreadyQueued
		}
		return nil, err
	}

	return &JoinOutput{Entry: entry}, nil
}

// Leave removes the player's queue entry
func (s *service) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	deleted, err := s.queueRepo.DeleteEntry(ctx, &queueRepo.DeleteEntryInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	return &LeaveOutput{
		Removed: deleted.Removed,
		Entry:   deleted.Entry,
	}, nil
}

// SweepExpired removes every entry that has waited past the queue timeout
func (s *service) SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error) {
	all, err := s.queueRepo.ListAllEntries(ctx, &queueRepo.ListAllEntriesInput{})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	removed := make([]*models.QueueEntry, 0)

	for _, entry := range all.Entries {
		if now.Sub(entry.JoinedAt) <= s.queueTimeout {
			continue
		}

		deleted, err := s.queueRepo.DeleteEntry(ctx, &queueRepo.DeleteEntryInput{
			PlayerID: entry.PlayerID,
		})
		if err != nil {
			return nil, err
		}

		// A concurrent leave or match may have beaten the sweep
		if deleted.Removed {
			removed = append(removed, entry)
		}
	}

	return &SweepExpiredOutput{Removed: removed}, nil
}

// TryMatch forms a session from the eight oldest entries of a mode
func (s *service) TryMatch(ctx context.Context, input *TryMatchInput) (*TryMatchOutput, error) {
	if !input.Mode.Valid() {
		return nil, ErrInvalidMode
	}

	listed, err := s.queueRepo.ListEntries(ctx, &queueRepo.ListEntriesInput{
		Mode: input.Mode,
	})
	if err != nil {
		return nil, err
	}

	if len(listed.Entries) < balance.PoolSize {
		return &TryMatchOutput{Formed: false}, nil
	}

	// FIFO: the eight who waited longest are guaranteed inclusion
	pool := make([]models.QueueEntry, balance.PoolSize)
	for i := 0; i < balance.PoolSize; i++ {
		pool[i] = *listed.Entries[i]
	}

	teamA, teamB, imbalance, err := balance.Split(pool)
	if err != nil {
		return nil, err
	}

	if imbalance > balance.WarnThreshold {
		log.Printf("matchmaking: %s split imbalance %.0f exceeds threshold %.0f",
			input.Mode, imbalance, balance.WarnThreshold)
	}

	sess := &models.Session{
		ID:        s.uuidGenerator.NewUUID(),
		Mode:      input.Mode,
		Status:    models.SessionStatusPending,
		TeamA:     rosterOf(teamA),
		TeamB:     rosterOf(teamB),
		Votes:     []string{},
		Imbalance: imbalance,
		CreatedAt: s.clock.Now(),
	}

	if input.Mode == models.GameModeDraft {
		sess.Draft = s.newDraftState(sess)
	}

	err = s.sessionRepo.CreateSession(ctx, &sessionRepo.CreateSessionInput{
		Session: sess,
	})
	if errors.Is(err, sessionRepo.ErrDuplicateID) {
		// One retry with a fresh identifier before failing the tick
		sess.ID = s.uuidGenerator.NewUUID()
		err = s.sessionRepo.CreateSession(ctx, &sessionRepo.CreateSessionInput{
			Session: sess,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	for i := 0; i < balance.PoolSize; i++ {
		_, err = s.queueRepo.DeleteEntry(ctx, &queueRepo.DeleteEntryInput{
			PlayerID: pool[i].PlayerID,
		})
		if err != nil {
			return nil, err
		}
	}

	return &TryMatchOutput{
		Formed:  true,
		Session: sess,
	}, nil
}

// QueueStatus lists the waiting entries per mode in join order
func (s *service) QueueStatus(ctx context.Context, input *QueueStatusInput) (*QueueStatusOutput, error) {
	entries := make(map[models.GameMode][]*models.QueueEntry, len(models.AllGameModes))

	for _, mode := range models.AllGameModes {
		listed, err := s.queueRepo.ListEntries(ctx, &queueRepo.ListEntriesInput{
			Mode: mode,
		})
		if err != nil {
			return nil, err
		}
		entries[mode] = listed.Entries
	}

	return &QueueStatusOutput{Entries: entries}, nil
}

// playerInOngoingSession reports whether the player is on a roster of a
// session that still blocks queueing
func (s *service) playerInOngoingSession(ctx context.Context, playerID string) (bool, error) {
	open, err := s.sessionRepo.ListOpenSessions(ctx, &sessionRepo.ListOpenSessionsInput{})
	if err != nil {
		return false, err
	}

	for _, sess := range open.Sessions {
		if sess.Ongoing() && sess.HasParticipant(playerID) {
			return true, nil
		}
	}

	return false, nil
}

// newDraftState initializes a draft in ready check with the highest-rated
// roster member of each side as captain
func (s *service) newDraftState(sess *models.Session) *models.DraftState {
	now := s.clock.Now()

	pool := make([]string, len(s.draftOptionPool))
	copy(pool, s.draftOptionPool)

	return &models.DraftState{
		Stage:        models.DraftStageReadyCheck,
		CaptainA:     highestRated(sess.TeamA),
		CaptainB:     highestRated(sess.TeamB),
		Ready:        []string{},
		Available:    pool,
		Banned:       []string{},
		PicksA:       []string{},
		PicksB:       []string{},
		StartedAt:    now,
		LastActionAt: now,
	}
}

func rosterOf(entries []models.QueueEntry) []models.RosterSlot {
	roster := make([]models.RosterSlot, len(entries))
	for i, e := range entries {
		roster[i] = models.RosterSlot{
			PlayerID: e.PlayerID,
			IGN:      e.IGN,
			Rating:   e.Rating,
			Sigma:    e.Sigma,
		}
	}
	return roster
}

func highestRated(roster []models.RosterSlot) string {
	best := roster[0]
	for _, slot := range roster[1:] {
		if slot.Rating > best.Rating {
			best = slot
		}
	}
	return best.PlayerID
}

package vote

import (
	"context"
	"errors"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

const (
	// DefaultQuorum is the distinct-voter count that cancels a session
	DefaultQuorum = 6

	// conflictRetries bounds CAS retries before giving up
	conflictRetries = 3
)

// service implements the Service interface
type service struct {
	quorum      int
	sessionRepo sessionRepo.Repository
}

// NewService creates a new vote service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	quorum := cfg.Quorum
	if quorum <= 0 {
		quorum = DefaultQuorum
	}

	return &service{
		quorum:      quorum,
		sessionRepo: cfg.SessionRepo,
	}, nil
}

// CastVote records one player's cancellation vote inside a session update.
// All checks run against the freshly read record so a vote racing the
// session's finalization can never resurrect it.
func (s *service) CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error) {
	var canceled bool

	var updated *models.Session
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		canceled = false
		updated, err = s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: input.SessionID,
			Mutate: func(sess *models.Session) error {
				if sess.Status.Final() {
					return ErrSessionAlreadyFinal
				}

				if !sess.HasParticipant(input.PlayerID) {
					return ErrNotAParticipant
				}

				if sess.HasVoted(input.PlayerID) {
					return ErrDuplicateVote
				}

				sess.Votes = append(sess.Votes, input.PlayerID)
				if len(sess.Votes) >= s.quorum {
					sess.Status = models.SessionStatusCanceled
					canceled = true
				}
				return nil
			},
		})
		if !errors.Is(err, sessionRepo.ErrConflict) {
			break
		}
	}

	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &CastVoteOutput{
		VoteCount: len(updated.Votes),
		Quorum:    s.quorum,
		Canceled:  canceled,
		Session:   updated,
	}, nil
}

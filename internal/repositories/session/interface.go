package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/ranked-arena/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

// Repository defines the interface for session persistence.
//
// UpdateSession is the single mutation path for an existing session: it
// re-reads the record, applies the mutation, and writes back under an
// optimistic check, so callers never hold session state across operations.
type Repository interface {
	// CreateSession persists a new session; fails with ErrDuplicateID if
	// the identifier is already taken
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// UpdateSession applies a read-mutate-write update under an optimistic
	// concurrency check; returns ErrConflict when a concurrent writer won
	UpdateSession(ctx context.Context, input *UpdateSessionInput) (*models.Session, error)

	// ListOpenSessions retrieves every session not yet processed
	ListOpenSessions(ctx context.Context, input *ListOpenSessionsInput) (*ListOpenSessionsOutput, error)

	// ClaimFingerprint atomically records an oracle report fingerprint for
	// a session; reports false if another session already claimed it
	ClaimFingerprint(ctx context.Context, input *ClaimFingerprintInput) (*ClaimFingerprintOutput, error)
}

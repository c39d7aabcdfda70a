package session

import "github.com/KirkDiggler/ranked-arena/internal/models"

// CreateSessionInput contains parameters for creating a session
type CreateSessionInput struct {
	Session *models.Session
}

// GetSessionInput contains parameters for retrieving a session
type GetSessionInput struct {
	SessionID string
}

// UpdateSessionInput contains parameters for a read-mutate-write update.
// Mutate receives the freshly read session; returning an error aborts the
// update without writing and the error is passed through to the caller.
type UpdateSessionInput struct {
	SessionID string
	Mutate    func(*models.Session) error
}

// ListOpenSessionsInput contains parameters for listing unprocessed sessions
type ListOpenSessionsInput struct {
}

// ListOpenSessionsOutput contains every session not yet processed
type ListOpenSessionsOutput struct {
	Sessions []*models.Session
}

// ClaimFingerprintInput contains parameters for claiming an oracle
// report fingerprint
type ClaimFingerprintInput struct {
	Fingerprint string
	SessionID   string
}

// ClaimFingerprintOutput reports whether the claim succeeded
type ClaimFingerprintOutput struct {
	// Claimed is false when another session already owns the fingerprint
	Claimed bool

	// OwnerSessionID is the session holding the fingerprint
	OwnerSessionID string
}

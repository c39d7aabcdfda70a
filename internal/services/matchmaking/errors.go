package matchmaking

// Error is a custom error type for matchmaking errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInvalidMode      Error = "unknown queue mode"
	ErrProfileNotFound  Error = "player is not registered"
	ErrAlreadyQueued    Error = "player is already queued"
	ErrAlreadyInSession Error = "player is in an ongoing session"
	ErrNilConfig        Error = "config cannot be nil"
	ErrNilQueueRepo     Error = "queue repository cannot be nil"
	ErrNilPlayerRepo    Error = "player repository cannot be nil"
	ErrNilSessionRepo   Error = "session repository cannot be nil"
	ErrNilClock         Error = "clock cannot be nil"
	ErrNilUUIDGenerator Error = "UUID generator cannot be nil"
	ErrEmptyOptionPool  Error = "draft option pool cannot be empty"
)

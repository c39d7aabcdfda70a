package rating

// Error is a custom error type for rating errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound  Error = "session not found"
	ErrNotDecided       Error = "session has no decided outcome"
	ErrAlreadyProcessed Error = "session was already processed"
	ErrNilConfig        Error = "config cannot be nil"
	ErrNilSessionRepo   Error = "session repository cannot be nil"
	ErrNilPlayerRepo    Error = "player repository cannot be nil"
	ErrNilFlipper       Error = "flipper cannot be nil"
)

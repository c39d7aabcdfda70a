package vote

// Error is a custom error type for vote errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound     Error = "session not found"
	ErrSessionAlreadyFinal Error = "session already reached a final state"
	ErrNotAParticipant     Error = "voter is not on either roster"
	ErrDuplicateVote       Error = "player already voted"
	ErrNilConfig           Error = "config cannot be nil"
	ErrNilSessionRepo      Error = "session repository cannot be nil"
)

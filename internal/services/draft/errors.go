package draft

// Error is a custom error type for draft errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound   Error = "session not found"
	ErrNoDraft           Error = "session has no draft"
	ErrNotACaptain       Error = "player is not a captain"
	ErrWrongStage        Error = "draft is not in the right stage"
	ErrWrongCaptain      Error = "only the designated captain may call the coin"
	ErrInvalidFace       Error = "face must be heads or tails"
	ErrNotYourTurn       Error = "it is not this captain's turn"
	ErrOptionUnavailable Error = "option is not in the available pool"
	ErrNilConfig         Error = "config cannot be nil"
	ErrNilSessionRepo    Error = "session repository cannot be nil"
	ErrNilFlipper        Error = "flipper cannot be nil"
	ErrNilClock          Error = "clock cannot be nil"
)

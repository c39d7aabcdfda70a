package monitor

// Error is a custom error type for monitor errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      Error = "config cannot be nil"
	ErrNilSessionRepo Error = "session repository cannot be nil"
	ErrNilOracle      Error = "oracle client cannot be nil"
	ErrNilClock       Error = "clock cannot be nil"
	ErrEmptyRoster    Error = "session has no roster to monitor"
)

// errNoLongerPending aborts a status write that lost to a final transition
const errNoLongerPending = Error("session is no longer pending")

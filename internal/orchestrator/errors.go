package orchestrator

// Error is a custom error type for orchestrator errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      Error = "config cannot be nil"
	ErrNilMatchmaking Error = "matchmaking service cannot be nil"
	ErrNilDraft       Error = "draft service cannot be nil"
	ErrNilRating      Error = "rating service cannot be nil"
	ErrNilMonitor     Error = "monitor service cannot be nil"
	ErrNilNotifier    Error = "notifier cannot be nil"
	ErrNilSessionRepo Error = "session repository cannot be nil"
)

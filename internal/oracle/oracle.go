// Package oracle answers which side won a session by watching one
// roster member's recent match history on the external stats site.
package oracle

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/KirkDiggler/ranked-arena/internal/oracle Client

import (
	"context"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

// Outcome is one observation about a monitored session
type Outcome string

const (
	// OutcomeTeamA means the monitored player's side placed first
	OutcomeTeamA Outcome = "team_a"

	// OutcomeTeamB means the monitored player's side placed second
	OutcomeTeamB Outcome = "team_b"

	// OutcomeUnknown means a finished match was found but no placement
	// could be read from it
	OutcomeUnknown Outcome = "unknown"

	// OutcomeStillPlaying means no finished match has appeared yet
	OutcomeStillPlaying Outcome = "still_playing"
)

// ObserveInput identifies the session and the player being watched.
// The monitored player is on team A, so a first-place match reads as a
// team A win.
type ObserveInput struct {
	SessionID string
	IGN       string
	Mode      models.GameMode
}

// ObserveOutput is one oracle answer
type ObserveOutput struct {
	Outcome Outcome

	// Fingerprint is a content hash of the observed match, set only when
	// the outcome is decided; identical real-world matches produce the
	// same fingerprint
	Fingerprint string
}

// Client is the contract with the external result source
type Client interface {
	// Observe reports the monitored player's most recent finished match,
	// if one exists yet
	Observe(ctx context.Context, input *ObserveInput) (*ObserveOutput, error)
}

// disabled is the client used when no stats site is configured. It
// always reports an unknown outcome, so watchers stop without writing
// anything and sessions wait for votes or the reconcile loop.
type disabled struct{}

// NewDisabled creates an oracle client that never reports a result
func NewDisabled() Client {
	return disabled{}
}

func (disabled) Observe(ctx context.Context, input *ObserveInput) (*ObserveOutput, error) {
	return &ObserveOutput{Outcome: OutcomeUnknown}, nil
}

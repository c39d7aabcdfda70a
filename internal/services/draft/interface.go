package draft

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ranked-arena/internal/services/draft Service

import (
	"context"
)

// Service owns the captain pick/ban protocol for draft-mode sessions
type Service interface {
	// MarkReady records one captain's readiness; when both captains are
	// ready the draft advances to the coinflip
	MarkReady(ctx context.Context, input *MarkReadyInput) (*MarkReadyOutput, error)

	// ChooseFace resolves the coinflip: captain A calls a face, the
	// engine draws one, and the winner becomes the first actor
	ChooseFace(ctx context.Context, input *ChooseFaceInput) (*ChooseFaceOutput, error)

	// SelectOption applies the current turn's ban or pick
	SelectOption(ctx context.Context, input *SelectOptionInput) (*SelectOptionOutput, error)

	// SweepTimeouts forces stalled drafts into their timeout status and
	// returns the sessions it closed
	SweepTimeouts(ctx context.Context, input *SweepTimeoutsInput) (*SweepTimeoutsOutput, error)
}

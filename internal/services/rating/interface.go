package rating

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ranked-arena/internal/services/rating Service

import (
	"context"
)

// Service converts a decided session outcome into applied rating updates
type Service interface {
	// Finalize computes and applies the eight rating deltas for a
	// decided session, then marks it processed. Profiles are fetched at
	// finalize time and every write goes out in one batch, so the update
	// is all-or-nothing. Calls that touch the same player serialize.
	Finalize(ctx context.Context, input *FinalizeInput) (*FinalizeOutput, error)
}

package vote

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ranked-arena/internal/services/vote Service

import (
	"context"
)

// Service owns the cancellation vote protocol for ongoing sessions
type Service interface {
	// CastVote records one player's cancellation vote; when distinct
	// voters reach the quorum the session is canceled in the same update
	CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error)
}

package matchmaking

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ranked-arena/internal/services/matchmaking Service

import (
	"context"
)

// Service owns the queue membership lifecycle and match formation
type Service interface {
	// Join enqueues a registered player into a mode's pool
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Leave removes the player's queue entry; absent entries are a no-op
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)

	// SweepExpired removes entries older than the queue timeout and
	// returns them so the caller can notify the affected players
	SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error)

	// TryMatch forms a session from the eight oldest entries of a mode,
	// if that many are waiting
	TryMatch(ctx context.Context, input *TryMatchInput) (*TryMatchOutput, error)

	// QueueStatus lists the waiting entries per mode in join order
	QueueStatus(ctx context.Context, input *QueueStatusInput) (*QueueStatusOutput, error)
}

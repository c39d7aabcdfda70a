package matchmaking

import (
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/common/uuid"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	queueRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/queue"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// Config holds configuration for the matchmaking service
type Config struct {
	// QueueTimeout is how long an entry may wait before a sweep removes it
	QueueTimeout time.Duration

	// DraftOptionPool is the full option set draft sessions start from
	DraftOptionPool []string

	// Repository dependencies
	QueueRepo   queueRepo.Repository
	PlayerRepo  playerRepo.Repository
	SessionRepo sessionRepo.Repository

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// JoinInput contains parameters for joining a queue
type JoinInput struct {
	PlayerID string
	Mode     models.GameMode
}

// JoinOutput contains the entry created for the player
type JoinOutput struct {
	Entry *models.QueueEntry
}

// LeaveInput contains parameters for leaving the queue
type LeaveInput struct {
	PlayerID string
}

// LeaveOutput reports whether an entry was removed
type LeaveOutput struct {
	Removed bool

	// Entry is the removed entry, nil if the player was not queued
	Entry *models.QueueEntry
}

// SweepExpiredInput contains parameters for expiring stale entries
type SweepExpiredInput struct {
}

// SweepExpiredOutput contains the entries removed by the sweep
type SweepExpiredOutput struct {
	Removed []*models.QueueEntry
}

// TryMatchInput contains parameters for attempting match formation
type TryMatchInput struct {
	Mode models.GameMode
}

// TryMatchOutput reports the result of a match attempt
type TryMatchOutput struct {
	// Formed is false when fewer than eight entries were waiting
	Formed bool

	// Session is the created session, nil unless Formed
	Session *models.Session
}

// QueueStatusInput contains parameters for querying the queues
type QueueStatusInput struct {
}

// QueueStatusOutput contains each mode's waiting entries in join order
type QueueStatusOutput struct {
	Entries map[models.GameMode][]*models.QueueEntry
}

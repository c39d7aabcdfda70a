package queue

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/ranked-arena/internal/repositories/queue Repository

import (
	"context"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

// Repository defines the interface for queue entry persistence
type Repository interface {
	// InsertEntry adds a queue entry; fails if the player is already queued
	InsertEntry(ctx context.Context, input *InsertEntryInput) error

	// DeleteEntry removes a player's entry, reporting whether one existed
	DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*DeleteEntryOutput, error)

	// GetEntry retrieves a player's entry, in any mode
	GetEntry(ctx context.Context, input *GetEntryInput) (*models.QueueEntry, error)

	// ListEntries retrieves a mode's entries ordered by join time ascending
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)

	// ListAllEntries retrieves every entry across all modes
	ListAllEntries(ctx context.Context, input *ListAllEntriesInput) (*ListAllEntriesOutput, error)
}

package queue

import "github.com/KirkDiggler/ranked-arena/internal/models"

// InsertEntryInput contains parameters for inserting a queue entry
type InsertEntryInput struct {
	Entry *models.QueueEntry
}

// DeleteEntryInput contains parameters for removing a player's entry
type DeleteEntryInput struct {
	PlayerID string
}

// DeleteEntryOutput reports whether an entry was removed
type DeleteEntryOutput struct {
	Removed bool

	// Entry is the removed entry, nil if none existed
	Entry *models.QueueEntry
}

// GetEntryInput contains parameters for retrieving a player's entry
type GetEntryInput struct {
	PlayerID string
}

// ListEntriesInput contains parameters for listing one mode's entries
type ListEntriesInput struct {
	Mode models.GameMode
}

// ListEntriesOutput contains a mode's entries in join order
type ListEntriesOutput struct {
	Entries []*models.QueueEntry
}

// ListAllEntriesInput contains parameters for listing every entry
type ListAllEntriesInput struct {
}

// ListAllEntriesOutput contains every queue entry across modes
type ListAllEntriesOutput struct {
	Entries []*models.QueueEntry
}

package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/ranked-arena/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

// Repository defines the interface for player profile persistence
type Repository interface {
	// SavePlayer persists a single profile
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// SavePlayers persists a batch of profiles in one atomic write
	SavePlayers(ctx context.Context, input *SavePlayersInput) error

	// GetPlayer retrieves a profile by Discord user ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.PlayerProfile, error)

	// GetPlayerByIGN retrieves a profile by in-game name
	GetPlayerByIGN(ctx context.Context, input *GetPlayerByIGNInput) (*models.PlayerProfile, error)

	// ListPlayers retrieves all profiles ordered by rating descending
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)
}

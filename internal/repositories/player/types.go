package player

import "github.com/KirkDiggler/ranked-arena/internal/models"

// SavePlayerInput contains parameters for saving a profile
type SavePlayerInput struct {
	Player *models.PlayerProfile
}

// SavePlayersInput contains parameters for saving a batch of profiles
type SavePlayersInput struct {
	Players []*models.PlayerProfile
}

// GetPlayerInput contains parameters for retrieving a profile
type GetPlayerInput struct {
	PlayerID string
}

// GetPlayerByIGNInput contains parameters for looking up a profile by IGN
type GetPlayerByIGNInput struct {
	IGN string
}

// ListPlayersInput contains parameters for listing profiles
type ListPlayersInput struct {
}

// ListPlayersOutput contains profiles ordered by rating descending
type ListPlayersOutput struct {
	Players []*models.PlayerProfile
}

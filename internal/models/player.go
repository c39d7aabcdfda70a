package models

// PlayerProfile represents a registered player and their skill rating
type PlayerProfile struct {
	// ID is the Discord user ID of the player
	ID string

	// IGN is the player's in-game name
	IGN string

	// Rating is the mean skill estimate (mu)
	Rating float64

	// Sigma is the rating uncertainty
	Sigma float64

	// GamesPlayed is how many decided matches the player has finished
	GamesPlayed int

	// Wins is the number of matches won
	Wins int

	// Losses is the number of matches lost
	Losses int
}

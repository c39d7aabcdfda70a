package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	playerKeyPrefix = "player:"
	ignKeyPrefix    = "player:ign:"
	ratingIndexKey  = "players:by_rating"
)

// ErrPlayerNotFound is returned when a profile is not found
var ErrPlayerNotFound = errors.New("player not found")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SavePlayer persists a profile to Redis
func (r *redisRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}

	if input.Player.ID == "" {
		return errors.New("player ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	if err := queueSave(ctx, pipe, input.Player); err != nil {
		return err
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

// SavePlayers persists a batch of profiles in one pipeline so a finalized
// session's rating updates land together or not at all
func (r *redisRepository) SavePlayers(ctx context.Context, input *SavePlayersInput) error {
	if input == nil || len(input.Players) == 0 {
		return errors.New("input and players cannot be empty")
	}

	pipe := r.client.TxPipeline()
	for _, profile := range input.Players {
		if profile == nil || profile.ID == "" {
			return errors.New("every player must have an ID")
		}
		if err := queueSave(ctx, pipe, profile); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}

	return nil
}

// queueSave adds the writes for one profile to a pipeline: the JSON record,
// the rating index entry, and the IGN lookup key
func queueSave(ctx context.Context, pipe redis.Pipeliner, profile *models.PlayerProfile) error {
	playerJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, profile.ID)
	pipe.Set(ctx, playerKey, playerJSON, 0)

	pipe.ZAdd(ctx, ratingIndexKey, redis.Z{
		Score:  profile.Rating,
		Member: profile.ID,
	})

	if profile.IGN != "" {
		ignKey := fmt.Sprintf("%s%s", ignKeyPrefix, strings.ToLower(profile.IGN))
		pipe.Set(ctx, ignKey, profile.ID, 0)
	}

	return nil
}

// GetPlayer retrieves a profile by ID from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.PlayerProfile, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, input.PlayerID)
	playerJSON, err := r.client.Get(ctx, playerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var profile models.PlayerProfile
	if err := json.Unmarshal([]byte(playerJSON), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &profile, nil
}

// GetPlayerByIGN retrieves a profile through the IGN lookup key
func (r *redisRepository) GetPlayerByIGN(ctx context.Context, input *GetPlayerByIGNInput) (*models.PlayerProfile, error) {
	if input == nil || input.IGN == "" {
		return nil, errors.New("input and IGN cannot be empty")
	}

	ignKey := fmt.Sprintf("%s%s", ignKeyPrefix, strings.ToLower(input.IGN))
	playerID, err := r.client.Get(ctx, ignKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to resolve IGN: %w", err)
	}

	return r.GetPlayer(ctx, &GetPlayerInput{PlayerID: playerID})
}

// ListPlayers retrieves every profile ordered by rating descending, walking
// the rating index so the leaderboard never sorts in memory
func (r *redisRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	playerIDs, err := r.client.ZRevRange(ctx, ratingIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rating index: %w", err)
	}

	if len(playerIDs) == 0 {
		return &ListPlayersOutput{Players: []*models.PlayerProfile{}}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(playerIDs))
	for i, playerID := range playerIDs {
		playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, playerID)
		commands[i] = pipe.Get(ctx, playerKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.PlayerProfile, 0, len(playerIDs))
	for i, cmd := range commands {
		playerJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Profile removed between index read and fetch
				continue
			}
			return nil, fmt.Errorf("failed to get player %s: %w", playerIDs[i], err)
		}

		var profile models.PlayerProfile
		if err := json.Unmarshal([]byte(playerJSON), &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", playerIDs[i], err)
		}

		players = append(players, &profile)
	}

	return &ListPlayersOutput{Players: players}, nil
}

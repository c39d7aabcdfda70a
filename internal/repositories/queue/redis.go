package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	entryKeyPrefix  = "queue:entry:"
	modeIndexPrefix = "queue:mode:"
)

var (
	// ErrEntryNotFound is returned when a player has no queue entry
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrAlreadyQueued is returned when inserting over an existing entry
	ErrAlreadyQueued = errors.New("player already has a queue entry")
)

// Config holds configuration for the Redis queue repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed queue repository
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

// InsertEntry adds an entry keyed by player, guarding the one-entry-per-player
// invariant with SETNX so two concurrent joins cannot both land
func (r *redisRepository) InsertEntry(ctx context.Context, input *InsertEntryInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	entry := input.Entry
	if entry.PlayerID == "" {
		return errors.New("entry player ID cannot be empty")
	}
	if !entry.Mode.Valid() {
		return fmt.Errorf("unknown game mode %q", entry.Mode)
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, entry.PlayerID)
	set, err := r.client.SetNX(ctx, entryKey, entryJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	if !set {
		return ErrAlreadyQueued
	}

	modeKey := fmt.Sprintf("%s%s", modeIndexPrefix, entry.Mode)
	err = r.client.ZAdd(ctx, modeKey, redis.Z{
		Score:  float64(entry.JoinedAt.UnixNano()),
		Member: entry.PlayerID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index entry: %w", err)
	}

	return nil
}

// DeleteEntry removes a player's entry and its mode index member
func (r *redisRepository) DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*DeleteEntryOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	entry, err := r.GetEntry(ctx, &GetEntryInput{PlayerID: input.PlayerID})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return &DeleteEntryOutput{Removed: false}, nil
		}
		return nil, err
	}

	pipe := r.client.Pipeline()
	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, input.PlayerID)
	pipe.Del(ctx, entryKey)
	modeKey := fmt.Sprintf("%s%s", modeIndexPrefix, entry.Mode)
	pipe.ZRem(ctx, modeKey, input.PlayerID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}

	return &DeleteEntryOutput{Removed: true, Entry: entry}, nil
}

// GetEntry retrieves a player's entry from Redis
func (r *redisRepository) GetEntry(ctx context.Context, input *GetEntryInput) (*models.QueueEntry, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, input.PlayerID)
	entryJSON, err := r.client.Get(ctx, entryKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var entry models.QueueEntry
	if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return &entry, nil
}

// ListEntries retrieves one mode's entries in join-time order via the
// mode index, skipping members whose entry record has since been removed
func (r *redisRepository) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil || !input.Mode.Valid() {
		return nil, errors.New("input and mode cannot be empty")
	}

	modeKey := fmt.Sprintf("%s%s", modeIndexPrefix, input.Mode)
	playerIDs, err := r.client.ZRange(ctx, modeKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read mode index: %w", err)
	}

	entries, err := r.fetchEntries(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	return &ListEntriesOutput{Entries: entries}, nil
}

// ListAllEntries retrieves every entry across all mode indexes
func (r *redisRepository) ListAllEntries(ctx context.Context, input *ListAllEntriesInput) (*ListAllEntriesOutput, error) {
	all := make([]*models.QueueEntry, 0)
	for _, mode := range models.AllGameModes {
		out, err := r.ListEntries(ctx, &ListEntriesInput{Mode: mode})
		if err != nil {
			return nil, err
		}
		all = append(all, out.Entries...)
	}

	return &ListAllEntriesOutput{Entries: all}, nil
}

func (r *redisRepository) fetchEntries(ctx context.Context, playerIDs []string) ([]*models.QueueEntry, error) {
	if len(playerIDs) == 0 {
		return []*models.QueueEntry{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(playerIDs))
	for i, playerID := range playerIDs {
		entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, playerID)
		commands[i] = pipe.Get(ctx, entryKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	entries := make([]*models.QueueEntry, 0, len(playerIDs))
	for i, cmd := range commands {
		entryJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Entry removed between index read and fetch
				continue
			}
			return nil, fmt.Errorf("failed to get entry %s: %w", playerIDs[i], err)
		}

		var entry models.QueueEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %s: %w", playerIDs[i], err)
		}

		entries = append(entries, &entry)
	}

	return entries, nil
}

package session

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
	sessionKeyPrefix     = "session:"
	fingerprintKeyPrefix = "session:fingerprint:"
	openSessionsKey      = "sessions:open"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateID is returned when creating a session whose ID exists
	ErrDuplicateID = errors.New("session ID already exists")

	// ErrConflict is returned when a concurrent writer invalidated an
	// update; callers retry with fresh state
	ErrConflict = errors.New("session modified concurrently")
)

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
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

// CreateSession persists a new session, refusing duplicate identifiers
func (r *redisRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sess := input.Session
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	sessionJSON, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sess.ID)
	set, err := r.client.SetNX(ctx, sessionKey, sessionJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !set {
		return ErrDuplicateID
	}

	if err := r.client.SAdd(ctx, openSessionsKey, sess.ID).Err(); err != nil {
		return fmt.Errorf("failed to index session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// UpdateSession re-reads the session under WATCH, applies the mutation,
// and writes back transactionally. A concurrent write between the read
// and the commit aborts the transaction and surfaces as ErrConflict.
func (r *redisRepository) UpdateSession(ctx context.Context, input *UpdateSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" || input.Mutate == nil {
		return nil, errors.New("input, session ID and mutate cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	var updated *models.Session

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		sessionJSON, err := tx.Get(ctx, sessionKey).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		var sess models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		if err := input.Mutate(&sess); err != nil {
			return err
		}

		newJSON, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey, newJSON, 0)
			if sess.Status == models.SessionStatusProcessed {
				pipe.SRem(ctx, openSessionsKey, sess.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = &sess
		return nil
	}, sessionKey)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return updated, nil
}

// ListOpenSessions retrieves every session still in the open index
func (r *redisRepository) ListOpenSessions(ctx context.Context, input *ListOpenSessionsInput) (*ListOpenSessionsOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, openSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get open session IDs: %w", err)
	}

	if len(sessionIDs) == 0 {
		return &ListOpenSessionsOutput{Sessions: []*models.Session{}}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(sessionIDs))
	for i, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		commands[i] = pipe.Get(ctx, sessionKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get open sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for i, cmd := range commands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Session removed between index read and fetch
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionIDs[i], err)
		}

		var sess models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionIDs[i], err)
		}

		sessions = append(sessions, &sess)
	}

	return &ListOpenSessionsOutput{Sessions: sessions}, nil
}

// ClaimFingerprint records an oracle report fingerprint with SETNX so the
// same real-world match can never decide two sessions
func (r *redisRepository) ClaimFingerprint(ctx context.Context, input *ClaimFingerprintInput) (*ClaimFingerprintOutput, error) {
	if input == nil || input.Fingerprint == "" || input.SessionID == "" {
		return nil, errors.New("input, fingerprint and session ID cannot be empty")
	}

	fingerprintKey := fmt.Sprintf("%s%s", fingerprintKeyPrefix, input.Fingerprint)
	set, err := r.client.SetNX(ctx, fingerprintKey, input.SessionID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim fingerprint: %w", err)
	}

	if set {
		return &ClaimFingerprintOutput{Claimed: true, OwnerSessionID: input.SessionID}, nil
	}

	owner, err := r.client.Get(ctx, fingerprintKey).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read fingerprint owner: %w", err)
	}

	// Claiming again for the owning session is idempotent
	return &ClaimFingerprintOutput{
		Claimed:        owner == input.SessionID,
		OwnerSessionID: owner,
	}, nil
}

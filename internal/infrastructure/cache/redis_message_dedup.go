package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisMessageDedup implements MessageDedup using Redis.
// Suitable for distributed deployments where multiple instances consume
// the same inbound message stream.
type RedisMessageDedup struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisMessageDedup creates a new Redis-based dedup set
func NewRedisMessageDedup(cfg RedisConfig) (*RedisMessageDedup, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMessageDedup{
		client:    client,
		keyPrefix: "intake:dedup:",
	}, nil
}

// NewRedisMessageDedupWithClient creates a dedup set with an existing Redis client.
// The caller retains ownership of the client.
func NewRedisMessageDedupWithClient(client *redis.Client, keyPrefix string) *RedisMessageDedup {
	if keyPrefix == "" {
		keyPrefix = "intake:dedup:"
	}
	return &RedisMessageDedup{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkSeen records a message ID with a TTL using SETNX so concurrent
// consumers agree on which one saw it first.
func (s *RedisMessageDedup) MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := s.keyPrefix + messageID

	result, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as seen: %w", err)
	}
	return result, nil
}

// Seen checks whether a message ID has already been recorded
func (s *RedisMessageDedup) Seen(ctx context.Context, messageID string) (bool, error) {
	key := s.keyPrefix + messageID

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check message: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisMessageDedup) Close() error {
	return s.client.Close()
}

var _ shared.MessageDedup = (*RedisMessageDedup)(nil)

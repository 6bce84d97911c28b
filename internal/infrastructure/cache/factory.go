package cache

import (
	"fmt"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MessageDedupFactory creates dedup stores based on configuration
type MessageDedupFactory struct {
	redisConfig           config.RedisConfig
	maxEntries            int
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// MessageDedupFactoryOption is a functional option for configuring the factory
type MessageDedupFactoryOption func(*MessageDedupFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) MessageDedupFactoryOption {
	return func(f *MessageDedupFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-process set
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) MessageDedupFactoryOption {
	return func(f *MessageDedupFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithMaxEntries bounds the in-process dedup set
func WithMaxEntries(max int) MessageDedupFactoryOption {
	return func(f *MessageDedupFactory) {
		f.maxEntries = max
	}
}

// NewMessageDedupFactory creates a new factory
func NewMessageDedupFactory(cfg config.RedisConfig, opts ...MessageDedupFactoryOption) *MessageDedupFactory {
	f := &MessageDedupFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based dedup set
func (f *MessageDedupFactory) CreateRedisStore() (shared.MessageDedup, error) {
	store, err := NewRedisMessageDedup(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis message dedup: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-process dedup set.
// WARNING: in-process sets do not share state across instances, so
// duplicate messages may be processed in distributed deployments.
func (f *MessageDedupFactory) CreateInMemoryStore() shared.MessageDedup {
	return NewInMemoryMessageDedup(f.maxEntries)
}

// CreateStore creates a dedup set, preferring Redis when it is reachable
func (f *MessageDedupFactory) CreateStore() (shared.MessageDedup, error) {
	if f.redisConfig.Enabled {
		store, err := f.CreateRedisStore()
		if err == nil {
			f.logger.Info("using Redis message dedup")
			return store, nil
		}

		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for message dedup but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-process message dedup. "+
			"Duplicate messages may be processed in distributed deployments.",
			zap.Error(err),
		)
	}
	return f.CreateInMemoryStore(), nil
}

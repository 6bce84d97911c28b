package shared

import (
	"context"
	"time"
)

// MessageDedup tracks recently processed inbound message IDs so retried
// transport deliveries do not produce duplicate orders.
//
// Implementations are approximate, not exactly-once: the in-memory store
// clears on overflow and loses state on restart, and the Redis store shares
// the usual TTL race windows. Callers must treat a false negative (the same
// message processed twice) as possible and keep downstream handling
// idempotent.
type MessageDedup interface {
	// MarkSeen records a message ID with a TTL.
	// Returns true if the ID was newly recorded, false if already present.
	MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error)

	// Seen reports whether a message ID is currently recorded.
	Seen(ctx context.Context, messageID string) (bool, error)

	// Close releases resources held by the store.
	Close() error
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/chatcart/backend/internal/domain/shared"
)

// entry represents a seen message ID with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryMessageDedup implements MessageDedup using an in-memory map.
// Suitable for single-instance deployments and testing. The set is bounded:
// when maxEntries is exceeded it is cleared wholesale, which may let an old
// duplicate through. Dedup here is best-effort, not exactly-once.
type InMemoryMessageDedup struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryMessageDedup creates a new in-memory dedup set.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryMessageDedup(maxEntries int) *InMemoryMessageDedup {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	store := &InMemoryMessageDedup{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		stopChan:   make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkSeen records a message ID with a TTL.
// Returns true if the ID was newly recorded, false if it was already seen.
func (s *InMemoryMessageDedup) MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[messageID]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Already seen
		}
		// Entry exists but expired, will be overwritten
	}

	if len(s.entries) >= s.maxEntries {
		s.entries = make(map[string]entry)
	}

	s.entries[messageID] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Seen checks whether a message ID has already been recorded
func (s *InMemoryMessageDedup) Seen(ctx context.Context, messageID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[messageID]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as unseen
	}
	return true, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryMessageDedup) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryMessageDedup) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the set
func (s *InMemoryMessageDedup) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for messageID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, messageID)
		}
	}
}

// Size returns the number of entries in the set (for testing/monitoring)
func (s *InMemoryMessageDedup) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.MessageDedup = (*InMemoryMessageDedup)(nil)

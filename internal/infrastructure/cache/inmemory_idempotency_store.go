package cache

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed event ids in process memory.
// State is not shared between instances.
type InMemoryIdempotencyStore struct {
	entries *expiringMap[struct{}]
}

// NewInMemoryIdempotencyStore creates a store and starts its cleanup loop
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: newExpiringMap[struct{}](defaultCleanupInterval)}
}

// MarkProcessed implements shared.IdempotencyStore
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.entries.setIfAbsent(eventID, struct{}{}, ttl), nil
}

// IsProcessed implements shared.IdempotencyStore
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	_, ok := s.entries.get(eventID)
	return ok, nil
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.entries.close()
	return nil
}

// Size returns the number of stored ids, expired ones included until cleanup
func (s *InMemoryIdempotencyStore) Size() int {
	return s.entries.size()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

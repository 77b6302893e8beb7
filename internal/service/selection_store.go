package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zuqon/content-backend/internal/domain"
)

const selectionTTL = 24 * time.Hour

// SelectionStore holds the user's pending platform selection per content
// id. A successful publish request clears the selection so a repeated
// submit requires explicit re-selection.
type SelectionStore interface {
	Get(ctx context.Context, contentID uint64) ([]domain.Platform, error)
	Set(ctx context.Context, contentID uint64, platforms []domain.Platform) error
	Clear(ctx context.Context, contentID uint64) error
}

// redisSelectionStore persists selections in Redis so they survive
// restarts and are shared across instances.
type redisSelectionStore struct {
	client *redis.Client
}

func NewRedisSelectionStore(client *redis.Client) SelectionStore {
	return &redisSelectionStore{client: client}
}

func selectionKey(contentID uint64) string {
	return fmt.Sprintf("selection:%d", contentID)
}

func (s *redisSelectionStore) Get(ctx context.Context, contentID uint64) ([]domain.Platform, error) {
	data, err := s.client.Get(ctx, selectionKey(contentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var platforms []domain.Platform
	if err := json.Unmarshal(data, &platforms); err != nil {
		return nil, err
	}
	return platforms, nil
}

func (s *redisSelectionStore) Set(ctx context.Context, contentID uint64, platforms []domain.Platform) error {
	data, err := json.Marshal(platforms)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, selectionKey(contentID), data, selectionTTL).Err()
}

func (s *redisSelectionStore) Clear(ctx context.Context, contentID uint64) error {
	return s.client.Del(ctx, selectionKey(contentID)).Err()
}

// memorySelectionStore backs redis-less dev and tests.
type memorySelectionStore struct {
	mu         sync.RWMutex
	selections map[uint64][]domain.Platform
}

func NewMemorySelectionStore() SelectionStore {
	return &memorySelectionStore{selections: make(map[uint64][]domain.Platform)}
}

func (s *memorySelectionStore) Get(_ context.Context, contentID uint64) ([]domain.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel := s.selections[contentID]
	out := make([]domain.Platform, len(sel))
	copy(out, sel)
	return out, nil
}

func (s *memorySelectionStore) Set(_ context.Context, contentID uint64, platforms []domain.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := make([]domain.Platform, len(platforms))
	copy(sel, platforms)
	s.selections[contentID] = sel
	return nil
}

func (s *memorySelectionStore) Clear(_ context.Context, contentID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, contentID)
	return nil
}

// Package memory is an in-process image override store for local runs and
// tests. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
)

type OverrideStore struct {
	mu     sync.RWMutex
	images map[int64]string
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{images: make(map[int64]string)}
}

func (s *OverrideStore) GetMany(_ context.Context, ids []int64) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]string)
	for _, id := range ids {
		if img, ok := s.images[id]; ok {
			out[id] = img
		}
	}
	return out, nil
}

func (s *OverrideStore) Set(_ context.Context, productID int64, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[productID] = image
	return nil
}

func (s *OverrideStore) Ping(context.Context) error {
	return nil
}

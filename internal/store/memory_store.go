package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

// MemoryStore keeps the current forecast in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current forecast.Forecast
	set     bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Current returns the stored forecast, if any.
func (s *MemoryStore) Current(ctx context.Context) (forecast.Forecast, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.set, nil
}

// Save replaces the stored forecast.
func (s *MemoryStore) Save(ctx context.Context, f forecast.Forecast) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = f
	s.set = true
	return nil
}

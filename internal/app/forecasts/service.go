package forecasts

import (
	"context"
	"sync"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

// Store defines the contract for persisting and retrieving the current forecast.
type Store interface {
	Current(ctx context.Context) (forecast.Forecast, bool, error)
	Save(ctx context.Context, f forecast.Forecast) error
}

// Service coordinates forecast operations using a Store.
type Service struct {
	mu    sync.Mutex
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Current returns the forecast served to clients.
func (s *Service) Current(ctx context.Context) (forecast.Forecast, bool, error) {
	return s.store.Current(ctx)
}

// Team returns one team's line from the current forecast.
func (s *Service) Team(ctx context.Context, name string) (forecast.TeamForecast, bool, error) {
	f, ok, err := s.store.Current(ctx)
	if err != nil || !ok {
		return forecast.TeamForecast{}, false, err
	}
	tf, found := f.Team(name)
	return tf, found, nil
}

// Replace swaps the current forecast for f.
func (s *Service) Replace(ctx context.Context, f forecast.Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, f)
}

// Merge folds batch into the current forecast and stores the result.
func (s *Service) Merge(ctx context.Context, batch forecast.Forecast) (forecast.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.store.Current(ctx)
	if err != nil {
		return forecast.Forecast{}, err
	}
	merged, err := current.Merge(batch)
	if err != nil {
		return forecast.Forecast{}, err
	}
	if err := s.store.Save(ctx, merged); err != nil {
		return forecast.Forecast{}, err
	}
	return merged, nil
}

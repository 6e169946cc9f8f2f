package testutil

import (
	"context"

	"github.com/preston-bernstein/worldcup-sim/internal/app/forecasts"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/store"
)

// NewServiceWithForecast builds a forecast service backed by an in-memory store,
// preloaded with f unless f is empty.
func NewServiceWithForecast(f forecast.Forecast) *forecasts.Service {
	ms := store.NewMemoryStore()
	if !f.IsEmpty() {
		_ = ms.Save(context.Background(), f)
	}
	return forecasts.NewService(ms)
}

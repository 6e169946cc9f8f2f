package server

import (
	"context"

	"github.com/preston-bernstein/worldcup-sim/internal/batcher"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

// Batcher defines the minimal batch loop behavior needed by the server.
type Batcher interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() batcher.Status
	RunOnce(ctx context.Context, trigger string) (forecast.Forecast, error)
}

package server

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/sim"
)

// batchRunner gives every batch its own seed. With a fixed SIM_SEED the seeds come from
// one master source, so a restart replays the same sequence of batches.
type batchRunner struct {
	mu     sync.Mutex
	master *rand.Rand // nil for time-based seeds
	opts   sim.Options
}

func newBatchRunner(cfg config.Config, logger *slog.Logger) *batchRunner {
	r := &batchRunner{
		opts: sim.Options{
			Iterations: cfg.Batch.Iterations,
			Workers:    cfg.Simulation.Workers,
			Logger:     logger,
		},
	}
	if seed := cfg.Simulation.Seed; seed != 0 {
		r.master = rand.New(rand.NewPCG(seed, seed))
	}
	return r
}

func (r *batchRunner) Run(ctx context.Context, list []teams.Team) (forecast.Forecast, error) {
	opts := r.opts
	opts.Seed = r.nextSeed()
	return sim.New(opts).Run(ctx, list)
}

func (r *batchRunner) nextSeed() uint64 {
	if r.master == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// zero would switch the simulator to a time-based seed
	return r.master.Uint64() | 1
}

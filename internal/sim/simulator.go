package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
)

const (
	defaultIterations = 100_000
	// ctx is polled once per this many tournaments.
	cancelCheckEvery = 1024
)

// ErrIterations is returned for a non-positive iteration count.
var ErrIterations = errors.New("iterations must be positive")

// ResolverFactory builds the Resolver a worker uses from that worker's random source.
type ResolverFactory func(rng *rand.Rand) Resolver

// Options configures a Simulator.
type Options struct {
	Iterations  int
	Workers     int
	Seed        uint64 // 0 picks a time-based seed
	Model       ScoringModel
	NewResolver ResolverFactory // overrides Model when set
	Logger      *slog.Logger
	Now         func() time.Time
	NewRunID    func() string
}

// Simulator repeats whole tournaments and aggregates the outcomes.
type Simulator struct {
	opts Options
}

// New builds a Simulator with defaults filled in.
func New(opts Options) *Simulator {
	if opts.Iterations == 0 {
		opts.Iterations = defaultIterations
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Model == nil {
		opts.Model = QuotientModel{}
	}
	if opts.NewResolver == nil {
		model := opts.Model
		opts.NewResolver = func(rng *rand.Rand) Resolver {
			return NewResolver(model, rng)
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Simulator{opts: opts}
}

// Iterations reports the configured number of tournaments per Run.
func (s *Simulator) Iterations() int {
	return s.opts.Iterations
}

// Run validates the field, simulates the configured number of tournaments and returns
// the aggregated forecast, teams ordered by titles won.
func (s *Simulator) Run(ctx context.Context, list []teams.Team) (forecast.Forecast, error) {
	partition, err := Partition(list)
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("invalid field: %w", err)
	}
	n := s.opts.Iterations
	if n <= 0 {
		return forecast.Forecast{}, fmt.Errorf("got %d: %w", n, ErrIterations)
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = uint64(s.opts.Now().UnixNano())
	}
	k := s.opts.Workers
	if k > n {
		k = n
	}
	runID := s.opts.NewRunID()

	logger := logging.FromContext(ctx, s.opts.Logger)
	logging.Info(logger, "simulation started",
		slog.String(logging.FieldRunID, runID),
		slog.Int(logging.FieldIterations, n),
		slog.Int(logging.FieldWorkers, k),
		slog.Uint64(logging.FieldSeed, seed),
	)
	start := time.Now()

	master := rand.New(rand.NewPCG(seed, seed))
	batchSize := n / k
	remainder := n % k

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		total    = NewStats(FieldSize)
		firstErr error
	)
	for i := 0; i < k; i++ {
		size := batchSize
		if i < remainder {
			size++
		}
		workerSeed := master.Uint64()

		wg.Add(1)
		go func(size int, workerSeed uint64) {
			defer wg.Done()
			stats, err := s.batch(ctx, partition, size, workerSeed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			total.Add(stats)
		}(size, workerSeed)
	}
	wg.Wait()

	if firstErr != nil {
		logging.Error(logger, "simulation aborted", firstErr, slog.String(logging.FieldRunID, runID))
		return forecast.Forecast{}, firstErr
	}

	entries := make([]forecast.TeamForecast, 0, FieldSize)
	for _, members := range partition {
		for _, t := range members {
			entries = append(entries, forecast.TeamForecast{Team: t, Counts: total[len(entries)]})
		}
	}

	logging.Info(logger, "simulation finished",
		slog.String(logging.FieldRunID, runID),
		slog.Int(logging.FieldIterations, n),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return forecast.New(runID, n, seed, entries, s.opts.Now()), nil
}

// batch runs size tournaments on a private field, random source and stats arena.
func (s *Simulator) batch(ctx context.Context, partition [][]teams.Team, size int, seed uint64) (Stats, error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	engine := NewEngine(s.opts.NewResolver(rng))
	groups := newField(partition)
	stats := NewStats(FieldSize)

	for i := 0; i < size; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("simulation cancelled after %d tournaments: %w", i, err)
			}
		}
		if _, err := engine.SimulateTournament(groups, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
)

// StubProvider is a test double for providers.TeamProvider.
type StubProvider struct {
	Teams  []teams.Team
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// FetchTeams returns configured teams and error while tracking calls.
func (s *StubProvider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Teams, s.Err
}

// StubRunner is a test double for batcher.Runner.
type StubRunner struct {
	Result forecast.Forecast
	Err    error
	Calls  atomic.Int32
}

// Run returns the configured forecast or error.
func (s *StubRunner) Run(ctx context.Context, list []teams.Team) (forecast.Forecast, error) {
	_ = ctx
	_ = list
	s.Calls.Add(1)
	if s.Err != nil {
		return forecast.Forecast{}, s.Err
	}
	f := s.Result
	if f.RunID == "" {
		f.RunID = "stub-run"
	}
	return f, nil
}

// StubSnapshotWriter is a test double for batcher.SnapshotWriter.
type StubSnapshotWriter struct {
	mu      sync.Mutex
	Written map[string]forecast.Forecast // keyed by run id
	Err     error
}

// WriteForecast records the forecast for verification in tests.
func (w *StubSnapshotWriter) WriteForecast(f forecast.Forecast) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	if w.Written == nil {
		w.Written = make(map[string]forecast.Forecast)
	}
	w.Written[f.RunID] = f
	return nil
}

// Get returns a written forecast.
func (w *StubSnapshotWriter) Get(runID string) (forecast.Forecast, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.Written[runID]
	return f, ok
}

// StubSnapshotStore is a test double for snapshots.Store.
type StubSnapshotStore struct {
	Forecasts map[string]forecast.Forecast // keyed by run id
	Order     []string                     // newest first
	LoadErr   error
}

// LoadForecast returns the forecast for runID if present.
func (s *StubSnapshotStore) LoadForecast(runID string) (forecast.Forecast, error) {
	if s.LoadErr != nil {
		return forecast.Forecast{}, s.LoadErr
	}
	f, ok := s.Forecasts[runID]
	if !ok {
		return forecast.Forecast{}, errors.New("snapshot not found")
	}
	return f, nil
}

// Runs lists the stored runs in Order.
func (s *StubSnapshotStore) Runs() ([]snapshots.RunMeta, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	out := make([]snapshots.RunMeta, 0, len(s.Order))
	for _, id := range s.Order {
		f := s.Forecasts[id]
		out = append(out, snapshots.RunMeta{RunID: id, Iterations: f.Iterations, GeneratedAt: f.GeneratedAt})
	}
	return out, nil
}

// Latest returns the first run in Order.
func (s *StubSnapshotStore) Latest() (forecast.Forecast, error) {
	if len(s.Order) == 0 {
		return forecast.Forecast{}, snapshots.ErrNoSnapshots
	}
	return s.LoadForecast(s.Order[0])
}

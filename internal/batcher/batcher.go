package batcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
	"github.com/preston-bernstein/worldcup-sim/internal/metrics"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
)

const defaultInterval = 5 * time.Minute

// Batch triggers, used as log and metric labels.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerAdmin    = "admin"
)

// ErrNotConfigured is returned when a cycle runs without a provider or runner.
var ErrNotConfigured = errors.New("batcher not configured")

// Runner simulates a batch of tournaments over a field.
type Runner interface {
	Run(ctx context.Context, list []teams.Team) (forecast.Forecast, error)
}

// ForecastService folds a batch into the served forecast.
type ForecastService interface {
	Merge(ctx context.Context, batch forecast.Forecast) (forecast.Forecast, error)
	Replace(ctx context.Context, f forecast.Forecast) error
}

// SnapshotWriter persists forecast snapshots to disk.
type SnapshotWriter interface {
	WriteForecast(f forecast.Forecast) error
}

// Deps wires a Batcher.
type Deps struct {
	Provider     providers.TeamProvider
	ProviderName string
	Runner       Runner
	Forecasts    ForecastService
	Writer       SnapshotWriter
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
	Interval     time.Duration
}

// Batcher runs a simulation batch on an interval and merges it into the current
// forecast, so the served probabilities sharpen the longer the service runs.
type Batcher struct {
	provider     providers.TeamProvider
	providerName string
	runner       Runner
	forecasts    ForecastService
	writer       SnapshotWriter
	logger       *slog.Logger
	metrics      *metrics.Recorder
	interval     time.Duration

	cycleMu  sync.Mutex
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the batch loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Cycles              int
	Iterations          int // tournaments folded into the forecast
}

// IsReady reports whether a forecast has been produced and batches are not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Batcher with sane defaults.
func New(d Deps) *Batcher {
	if d.Interval <= 0 {
		d.Interval = defaultInterval
	}
	if d.ProviderName == "" {
		d.ProviderName = "teams"
	}
	return &Batcher{
		provider:     d.Provider,
		providerName: d.ProviderName,
		runner:       d.Runner,
		forecasts:    d.Forecasts,
		writer:       d.Writer,
		logger:       d.Logger,
		metrics:      d.Metrics,
		interval:     d.Interval,
		done:         make(chan struct{}),
	}
}

// Start runs a first batch, then one per interval until the context is cancelled or Stop is called.
func (b *Batcher) Start(ctx context.Context) {
	b.startMu.Lock()
	if b.started {
		b.startMu.Unlock()
		return
	}
	b.started = true
	ticker := time.NewTicker(b.interval)
	b.ticker = ticker
	b.startMu.Unlock()

	go func() {
		logging.Info(b.logger, "batcher started", slog.Int64(logging.FieldDurationMS, b.interval.Milliseconds()))
		// Initial batch so the service has a forecast to serve.
		_, _ = b.RunOnce(ctx, TriggerStartup)

		for {
			select {
			case <-ctx.Done():
				b.stopTicker()
				logging.Info(b.logger, "batcher stopped")
				return
			case <-b.done:
				b.stopTicker()
				logging.Info(b.logger, "batcher stopped")
				return
			case <-ticker.C:
				_, _ = b.RunOnce(ctx, TriggerInterval)
			}
		}
	}()
}

// Stop halts the batch loop.
func (b *Batcher) Stop(ctx context.Context) error {
	_ = ctx
	b.stopOnce.Do(func() {
		close(b.done)
		b.stopTicker()
	})
	return nil
}

// RunOnce fetches the field, simulates one batch and merges it into the current forecast.
// Cycles never overlap; a caller arriving mid-cycle waits for it to finish.
func (b *Batcher) RunOnce(ctx context.Context, trigger string) (forecast.Forecast, error) {
	b.cycleMu.Lock()
	defer b.cycleMu.Unlock()

	start := time.Now()
	b.recordAttempt(start)

	merged, iterations, err := b.cycle(ctx)
	b.metrics.RecordBatch(trigger, iterations, time.Since(start), err)
	if err != nil {
		logging.Error(b.logger, "batch failed", err,
			slog.String(logging.FieldSource, trigger),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		b.recordFailure(err, start)
		return forecast.Forecast{}, err
	}

	if b.writer != nil {
		if writeErr := b.writer.WriteForecast(merged); writeErr != nil {
			logging.Error(b.logger, "forecast snapshot write failed", writeErr, slog.String(logging.FieldRunID, merged.RunID))
		}
	}
	b.recordSuccess(start, iterations)
	logging.Info(b.logger, "batch merged",
		slog.String(logging.FieldSource, trigger),
		slog.String(logging.FieldRunID, merged.RunID),
		slog.Int(logging.FieldIterations, merged.Iterations),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return merged, nil
}

func (b *Batcher) cycle(ctx context.Context) (forecast.Forecast, int, error) {
	if b.provider == nil || b.runner == nil || b.forecasts == nil {
		return forecast.Forecast{}, 0, ErrNotConfigured
	}

	fetchStart := time.Now()
	list, err := b.provider.FetchTeams(ctx)
	b.metrics.RecordProviderAttempt(b.providerName, time.Since(fetchStart), err)
	if err != nil {
		return forecast.Forecast{}, 0, err
	}

	batch, err := b.runner.Run(logging.WithLogger(ctx, b.logger), list)
	if err != nil {
		return forecast.Forecast{}, 0, err
	}
	merged, err := b.forecasts.Merge(ctx, batch)
	if errors.Is(err, forecast.ErrTeamMismatch) {
		// The field changed since the served forecast was built; start over from this batch.
		logging.Warn(b.logger, "field changed, restarting forecast",
			slog.String(logging.FieldRunID, batch.RunID),
			slog.Any("err", err),
		)
		if err := b.forecasts.Replace(ctx, batch); err != nil {
			return forecast.Forecast{}, 0, err
		}
		return batch, batch.Iterations, nil
	}
	if err != nil {
		return forecast.Forecast{}, 0, err
	}
	return merged, batch.Iterations, nil
}

func (b *Batcher) stopTicker() {
	b.startMu.Lock()
	defer b.startMu.Unlock()
	if b.ticker != nil {
		b.ticker.Stop()
	}
}

func (b *Batcher) recordAttempt(at time.Time) {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	b.status.LastAttempt = at
}

func (b *Batcher) recordSuccess(at time.Time, iterations int) {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	b.status.ConsecutiveFailures = 0
	b.status.LastError = ""
	b.status.LastSuccess = at
	b.status.Cycles++
	b.status.Iterations += iterations
}

func (b *Batcher) recordFailure(err error, at time.Time) {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()
	b.status.ConsecutiveFailures++
	if err != nil {
		b.status.LastError = err.Error()
	}
	b.status.LastAttempt = at
}

// Status returns a snapshot of the batcher's recent health.
func (b *Batcher) Status() Status {
	b.statusMu.RLock()
	defer b.statusMu.RUnlock()
	return b.status
}

// Provider exposes the underlying team provider.
func (b *Batcher) Provider() providers.TeamProvider {
	return b.provider
}

package batcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/app/forecasts"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/metrics"
	"github.com/preston-bernstein/worldcup-sim/internal/store"
	"github.com/preston-bernstein/worldcup-sim/internal/teststubs"
)

func batchResult(n int) forecast.Forecast {
	return forecast.New("batch-1", n, 7, []forecast.TeamForecast{
		{Team: teams.Team{Name: "Sweden", Group: "F"}, Counts: forecast.Counts{Winner: n / 2}},
		{Team: teams.Team{Name: "Mexico", Group: "F"}, Counts: forecast.Counts{Winner: n - n/2}},
	}, time.Unix(0, 0))
}

type fixture struct {
	provider *teststubs.StubProvider
	runner   *teststubs.StubRunner
	writer   *teststubs.StubSnapshotWriter
	service  *forecasts.Service
	recorder *metrics.Recorder
}

func newFixture(interval time.Duration) (*Batcher, *fixture) {
	f := &fixture{
		provider: &teststubs.StubProvider{Teams: []teams.Team{{Name: "Sweden"}}},
		runner:   &teststubs.StubRunner{Result: batchResult(100)},
		writer:   &teststubs.StubSnapshotWriter{},
		service:  forecasts.NewService(store.NewMemoryStore()),
		recorder: metrics.NewRecorder(),
	}
	b := New(Deps{
		Provider:     f.provider,
		ProviderName: "stub",
		Runner:       f.runner,
		Forecasts:    f.service,
		Writer:       f.writer,
		Metrics:      f.recorder,
		Interval:     interval,
	})
	return b, f
}

func TestBatcherRunOnceMergesAndWritesSnapshot(t *testing.T) {
	b, f := newFixture(time.Hour)
	ctx := context.Background()

	if _, err := b.RunOnce(ctx, TriggerAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, err := b.RunOnce(ctx, TriggerAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Iterations != 200 {
		t.Fatalf("expected 200 merged iterations, got %d", merged.Iterations)
	}

	current, ok, _ := f.service.Current(ctx)
	if !ok || current.Iterations != 200 {
		t.Fatalf("expected merged forecast stored, got %+v", current)
	}
	written, ok := f.writer.Get("batch-1")
	if !ok || written.Iterations != 200 {
		t.Fatalf("expected latest merged snapshot written, got %+v", written)
	}

	status := b.Status()
	if status.Cycles != 2 || status.Iterations != 200 || !status.IsReady() {
		t.Fatalf("unexpected status %+v", status)
	}
	if snap := f.recorder.BatchSnapshot(TriggerAdmin); snap.Calls != 2 || snap.Iterations != 200 {
		t.Fatalf("unexpected batch metrics %+v", snap)
	}
	if snap := f.recorder.ProviderSnapshot("stub"); snap.Calls != 2 {
		t.Fatalf("unexpected provider metrics %+v", snap)
	}
}

func TestBatcherRestartsForecastWhenFieldChanges(t *testing.T) {
	b, f := newFixture(time.Hour)
	ctx := context.Background()

	stale := forecast.New("old-run", 50, 1, []forecast.TeamForecast{
		{Team: teams.Team{Name: "Italy", Group: "A"}, Counts: forecast.Counts{Winner: 50}},
	}, time.Unix(0, 0))
	if err := f.service.Replace(ctx, stale); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := b.RunOnce(ctx, TriggerStartup)
	if err != nil {
		t.Fatalf("expected field change to recover, got %v", err)
	}
	if got.RunID != "batch-1" || got.Iterations != 100 {
		t.Fatalf("expected fresh forecast from batch, got %+v", got)
	}
	current, _, _ := f.service.Current(ctx)
	if _, ok := current.Team("Italy"); ok {
		t.Fatalf("expected stale field replaced, got %+v", current)
	}
}

func TestBatcherStatusTracksFailuresAndSuccess(t *testing.T) {
	b, f := newFixture(time.Hour)
	ctx := context.Background()
	f.provider.Err = errors.New("boom")

	if _, err := b.RunOnce(ctx, TriggerInterval); err == nil {
		t.Fatalf("expected provider error")
	}
	status := b.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}
	if f.runner.Calls.Load() != 0 {
		t.Fatalf("expected no simulation without a field")
	}

	f.provider.Err = nil
	if _, err := b.RunOnce(ctx, TriggerInterval); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	status = b.Status()
	if status.ConsecutiveFailures != 0 || status.LastSuccess.IsZero() || !status.IsReady() {
		t.Fatalf("expected ready after success, got %+v", status)
	}
	if snap := f.recorder.BatchSnapshot(TriggerInterval); snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected batch metrics %+v", snap)
	}
}

func TestBatcherNotReadyAfterRepeatedFailures(t *testing.T) {
	b, f := newFixture(time.Hour)
	_, _ = b.RunOnce(context.Background(), TriggerInterval)
	f.runner.Err = errors.New("cancelled")
	for i := 0; i < 3; i++ {
		_, _ = b.RunOnce(context.Background(), TriggerInterval)
	}
	if b.Status().IsReady() {
		t.Fatalf("expected not ready after 3 consecutive failures")
	}
}

func TestBatcherWriteErrorLogsButContinues(t *testing.T) {
	b, f := newFixture(time.Hour)
	f.writer.Err = errors.New("disk full")
	b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := b.RunOnce(context.Background(), TriggerAdmin); err != nil {
		t.Fatalf("expected success despite write error, got %v", err)
	}
	if b.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected success despite write error")
	}
}

func TestBatcherNilWriterDoesNotPanic(t *testing.T) {
	b, _ := newFixture(time.Hour)
	b.writer = nil
	if _, err := b.RunOnce(context.Background(), TriggerAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatcherUnconfiguredFails(t *testing.T) {
	b := New(Deps{})
	if _, err := b.RunOnce(context.Background(), TriggerAdmin); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBatcherStartRunsInitialBatch(t *testing.T) {
	b, f := newFixture(10 * time.Millisecond)
	f.provider.Notify = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx)

	select {
	case <-f.provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial batch")
	}

	deadline := time.Now().Add(time.Second)
	for f.provider.Calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	_ = b.Stop(context.Background())

	if f.provider.Calls.Load() < 2 {
		t.Fatalf("expected interval batches after startup, got %d", f.provider.Calls.Load())
	}
	if f.recorder.BatchSnapshot(TriggerStartup).Calls != 1 {
		t.Fatalf("expected exactly one startup batch")
	}
}

func TestBatcherStopsOnContextCancel(t *testing.T) {
	b, f := newFixture(5 * time.Millisecond)
	f.provider.Notify = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	b.Start(ctx)
	select {
	case <-f.provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial batch")
	}

	cancel()
	_ = b.Stop(context.Background())
	time.Sleep(10 * time.Millisecond) // let an in-flight cycle finish

	callsAfterStop := f.provider.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if f.provider.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no batches after stop; before=%d after=%d", callsAfterStop, f.provider.Calls.Load())
	}
}

func TestBatcherStartAndStopAreIdempotent(t *testing.T) {
	b, _ := newFixture(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Start(ctx)
	b.Start(ctx) // should no-op

	if err := b.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := b.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestBatcherConcurrentStartAndStop(t *testing.T) {
	for i := 0; i < 20; i++ {
		b, _ := newFixture(time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Start(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = b.Stop(context.Background())
		}()
		wg.Wait()
		cancel()

		b.startMu.Lock()
		started := b.started
		b.startMu.Unlock()
		if !started {
			t.Fatalf("run %d: expected batcher marked started", i)
		}
	}
}

func TestBatcherStartReturnsWhenAlreadyStarted(t *testing.T) {
	b, _ := newFixture(time.Hour)
	b.started = true
	b.Start(context.Background())
	if b.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestNewDefaults(t *testing.T) {
	b := New(Deps{})
	if b.interval != defaultInterval || b.providerName != "teams" {
		t.Fatalf("unexpected defaults interval=%s provider=%s", b.interval, b.providerName)
	}
	p := &teststubs.StubProvider{}
	if got := New(Deps{Provider: p}).Provider(); got != p {
		t.Fatalf("expected provider returned")
	}
}

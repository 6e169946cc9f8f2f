package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/batcher"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
	"github.com/preston-bernstein/worldcup-sim/internal/teststubs"
	"github.com/preston-bernstein/worldcup-sim/internal/testutil"
)

type failingReader struct {
	err error
}

func (f failingReader) Current(ctx context.Context) (forecast.Forecast, bool, error) {
	return forecast.Forecast{}, false, f.err
}

func (f failingReader) Team(ctx context.Context, name string) (forecast.TeamForecast, bool, error) {
	return forecast.TeamForecast{}, false, f.err
}

func newForecastHandler(t *testing.T) *Handler {
	t.Helper()
	svc := testutil.NewServiceWithForecast(testutil.SampleForecast("run-1", 8))
	return NewHandler(svc, nil, nil, nil)
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newForecastHandler(t)
	for _, path := range []string{"/health", "/ready", "/forecast", "/forecast/summary", "/forecast/teams/A1", "/forecast/runs", "/forecast/runs/x"} {
		rr := testutil.Serve(h, http.MethodPost, path, nil)
		testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
		if rr.Header().Get("Allow") != http.MethodGet {
			t.Fatalf("%s: expected Allow header", path)
		}
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		statusFn func() batcher.Status
		want     int
		wantErr  string
	}{
		{name: "no batcher", statusFn: nil, want: http.StatusOK},
		{
			name:     "never succeeded",
			statusFn: func() batcher.Status { return batcher.Status{} },
			want:     http.StatusServiceUnavailable,
			wantErr:  "not ready",
		},
		{
			name: "failing",
			statusFn: func() batcher.Status {
				return batcher.Status{LastSuccess: time.Now(), ConsecutiveFailures: 3, LastError: "provider down"}
			},
			want:    http.StatusServiceUnavailable,
			wantErr: "provider down",
		},
		{
			name:     "healthy",
			statusFn: func() batcher.Status { return batcher.Status{LastSuccess: time.Now(), Cycles: 2, Iterations: 20} },
			want:     http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, nil, nil, tt.statusFn)
			rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
			testutil.AssertStatus(t, rr, tt.want)
			var resp map[string]any
			testutil.DecodeJSON(t, rr, &resp)
			if tt.wantErr != "" && resp["error"] != tt.wantErr {
				t.Fatalf("expected error %q, got %v", tt.wantErr, resp["error"])
			}
			if tt.wantErr == "" && resp["status"] != "ready" {
				t.Fatalf("expected ready, got %v", resp)
			}
		})
	}
}

func TestForecast(t *testing.T) {
	h := newForecastHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/forecast", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp forecast.Forecast
	testutil.DecodeJSON(t, rr, &resp)
	if resp.RunID != "run-1" || resp.Iterations != 8 {
		t.Fatalf("unexpected forecast %+v", resp)
	}
	if len(resp.Teams) != 2 || resp.Teams[0].Team.Name != "A1" || resp.Teams[0].Probabilities.Winner != 1 {
		t.Fatalf("expected champion first, got %+v", resp.Teams)
	}
}

func TestForecastNotReady(t *testing.T) {
	cases := map[string]*Handler{
		"nil service":   NewHandler(nil, nil, nil, nil),
		"empty service": NewHandler(testutil.NewServiceWithForecast(forecast.Forecast{}), nil, nil, nil),
	}
	for name, h := range cases {
		for _, path := range []string{"/forecast", "/forecast/summary"} {
			rr := testutil.Serve(h, http.MethodGet, path, nil)
			if rr.Code != http.StatusServiceUnavailable {
				t.Fatalf("%s %s: expected 503, got %d", name, path, rr.Code)
			}
		}
	}
}

func TestForecastStoreError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	h := NewHandler(failingReader{err: errors.New("redis down")}, nil, logger, nil)

	rr := testutil.Serve(h, http.MethodGet, "/forecast", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	if !strings.Contains(buf.String(), "redis down") {
		t.Fatalf("expected store error logged, got %s", buf.String())
	}

	rr = testutil.Serve(h, http.MethodGet, "/forecast/teams/A1", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestSummary(t *testing.T) {
	h := newForecastHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/forecast/summary", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text content, got %s", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "8 simulated tournaments") || !strings.Contains(body, "A1") {
		t.Fatalf("unexpected summary %s", body)
	}
}

func TestTeamByName(t *testing.T) {
	h := newForecastHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/forecast/teams/a2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var tf forecast.TeamForecast
	testutil.DecodeJSON(t, rr, &tf)
	if tf.Team.Name != "A2" || tf.Counts.Second != 8 {
		t.Fatalf("unexpected team forecast %+v", tf)
	}

	rr = testutil.Serve(h, http.MethodGet, "/forecast/teams/Atlantis", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(h, http.MethodGet, "/forecast/teams/%20", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestTeamByNameUnescapesSpaces(t *testing.T) {
	f := testutil.SampleForecast("run-1", 2)
	f.Teams[0].Team.Name = "South Korea"
	h := NewHandler(testutil.NewServiceWithForecast(f), nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/forecast/teams/South%20Korea", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRuns(t *testing.T) {
	base := t.TempDir()
	w := snapshots.NewWriter(base, 5)
	testutil.WriteSnapshot(t, w, "run-a")
	testutil.WriteSnapshot(t, w, "run-b")
	h := NewHandler(nil, snapshots.NewFSStore(base), nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/forecast/runs", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		Runs []snapshots.RunMeta `json:"runs"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Runs) != 2 || resp.Runs[0].RunID != "run-b" {
		t.Fatalf("expected newest run first, got %+v", resp.Runs)
	}

	rr = testutil.Serve(h, http.MethodGet, "/forecast/runs/run-a", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var f forecast.Forecast
	testutil.DecodeJSON(t, rr, &f)
	if f.RunID != "run-a" || f.Iterations != 10 {
		t.Fatalf("unexpected snapshot %+v", f)
	}
}

func TestRunByIDErrors(t *testing.T) {
	store := &teststubs.StubSnapshotStore{Forecasts: map[string]forecast.Forecast{}}
	fsStore := snapshots.NewFSStore(t.TempDir())

	tests := []struct {
		name string
		h    *Handler
		path string
		want int
	}{
		{name: "missing", h: NewHandler(nil, fsStore, nil, nil), path: "/forecast/runs/nope", want: http.StatusNotFound},
		{name: "dot dot", h: NewHandler(nil, fsStore, nil, nil), path: "/forecast/runs/..", want: http.StatusBadRequest},
		{name: "encoded slash", h: NewHandler(nil, fsStore, nil, nil), path: "/forecast/runs/a%2Fb", want: http.StatusBadRequest},
		{name: "no store", h: NewHandler(nil, nil, nil, nil), path: "/forecast/runs/x", want: http.StatusServiceUnavailable},
		{name: "store failure", h: NewHandler(nil, store, nil, nil), path: "/forecast/runs/x", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.Serve(tt.h, http.MethodGet, tt.path, nil)
			testutil.AssertStatus(t, rr, tt.want)
		})
	}
}

func TestRunsStoreErrors(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	rr := testutil.Serve(h, http.MethodGet, "/forecast/runs", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	h = NewHandler(nil, &teststubs.StubSnapshotStore{LoadErr: errors.New("disk")}, nil, nil)
	rr = testutil.Serve(h, http.MethodGet, "/forecast/runs", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestUnknownPathReturnsNotFound(t *testing.T) {
	h := newForecastHandler(t)
	rr := testutil.Serve(h, http.MethodGet, "/games/today", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestPathParam(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{path: "/forecast/teams/Spain", want: "Spain", wantOK: true},
		{path: "/forecast/teams/Costa%20Rica", want: "Costa Rica", wantOK: true},
		{path: "/forecast/teams/", wantOK: false},
		{path: "/forecast/teams/%zz", wantOK: false},
		{path: "/other", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := pathParam(tt.path, "/forecast/teams/")
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("pathParam(%q) = %q,%v want %q,%v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

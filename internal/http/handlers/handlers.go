package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"os"
	"strings"

	"github.com/preston-bernstein/worldcup-sim/internal/batcher"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
	"github.com/preston-bernstein/worldcup-sim/internal/report"
	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
)

// ForecastReader serves the current forecast.
type ForecastReader interface {
	Current(ctx context.Context) (forecast.Forecast, bool, error)
	Team(ctx context.Context, name string) (forecast.TeamForecast, bool, error)
}

// Handler wires HTTP routes to the forecast service.
type Handler struct {
	svc      ForecastReader
	snaps    snapshots.Store
	logger   *slog.Logger
	statusFn func() batcher.Status
}

// NewHandler constructs a Handler. snaps and statusFn may be nil.
func NewHandler(svc ForecastReader, snaps snapshots.Store, logger *slog.Logger, statusFn func() batcher.Status) *Handler {
	return &Handler{
		svc:      svc,
		snaps:    snaps,
		logger:   logger,
		statusFn: statusFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/forecast":
		h.Forecast(w, r)
	case r.URL.Path == "/forecast/summary":
		h.Summary(w, r)
	case strings.HasPrefix(r.URL.Path, "/forecast/teams/"):
		h.TeamByName(w, r)
	case r.URL.Path == "/forecast/runs":
		h.Runs(w, r)
	case strings.HasPrefix(r.URL.Path, "/forecast/runs/"):
		h.RunByID(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether a forecast has been produced and the batch loop is healthy.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"status":     "ready",
			"cycles":     status.Cycles,
			"iterations": status.Iterations,
		}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Forecast returns the current aggregated forecast as JSON.
func (h *Handler) Forecast(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	f, ok := h.current(w, r)
	if !ok {
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "served forecast",
		slog.String(logging.FieldRunID, f.RunID),
		slog.Int(logging.FieldIterations, f.Iterations),
	)
	writeJSON(w, nethttp.StatusOK, f, h.logger)
}

// Summary renders the current forecast as a text table.
func (h *Handler) Summary(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	f, ok := h.current(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, f); err != nil {
		logging.Error(loggerFromContext(r, h.logger), "render summary failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "failed to render summary", h.logger)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// TeamByName returns one team's line of the current forecast.
func (h *Handler) TeamByName(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	name, ok := pathParam(r.URL.EscapedPath(), "/forecast/teams/")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid team name", h.logger)
		return
	}
	if h.svc == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "forecast not ready", h.logger)
		return
	}
	tf, found, err := h.svc.Team(r.Context(), name)
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "load team forecast failed", err, slog.String(logging.FieldTeam, name))
		writeError(w, r, nethttp.StatusInternalServerError, "failed to load forecast", h.logger)
		return
	}
	if !found {
		writeError(w, r, nethttp.StatusNotFound, "team not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, tf, h.logger)
}

// Runs lists the retained forecast snapshots, newest first.
func (h *Handler) Runs(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.snaps == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "snapshots not configured", h.logger)
		return
	}
	runs, err := h.snaps.Runs()
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "list snapshots failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "failed to list runs", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"runs": runs}, h.logger)
}

// RunByID returns a stored forecast snapshot.
func (h *Handler) RunByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := pathParam(r.URL.EscapedPath(), "/forecast/runs/")
	if !ok || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid run id", h.logger)
		return
	}
	if h.snaps == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "snapshots not configured", h.logger)
		return
	}
	f, err := h.snaps.LoadForecast(id)
	switch {
	case err == nil:
		writeJSON(w, nethttp.StatusOK, f, h.logger)
	case errors.Is(err, snapshots.ErrInvalidRunID):
		writeError(w, r, nethttp.StatusBadRequest, "invalid run id", h.logger)
	case errors.Is(err, os.ErrNotExist):
		writeError(w, r, nethttp.StatusNotFound, "run not found", h.logger)
	default:
		logging.Error(loggerFromContext(r, h.logger), "load snapshot failed", err, slog.String(logging.FieldRunID, id))
		writeError(w, r, nethttp.StatusInternalServerError, "failed to load run", h.logger)
	}
}

// current loads the served forecast, writing an error response when there is none.
func (h *Handler) current(w nethttp.ResponseWriter, r *nethttp.Request) (forecast.Forecast, bool) {
	if h.svc == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "forecast not ready", h.logger)
		return forecast.Forecast{}, false
	}
	f, ok, err := h.svc.Current(r.Context())
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "load forecast failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "failed to load forecast", h.logger)
		return forecast.Forecast{}, false
	}
	if !ok || f.IsEmpty() {
		writeError(w, r, nethttp.StatusServiceUnavailable, "forecast not ready", h.logger)
		return forecast.Forecast{}, false
	}
	return f, true
}

func pathParam(path, prefix string) (string, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || raw == path {
		return "", false
	}
	v, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

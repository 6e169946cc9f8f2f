package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/worldcup-sim/internal/batcher"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/http/requestutil"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
)

// BatchRunner runs one simulation batch on demand.
type BatchRunner interface {
	RunOnce(ctx context.Context, trigger string) (forecast.Forecast, error)
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	runner BatchRunner
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(runner BatchRunner, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		runner: runner,
		token:  token,
		logger: logger,
	}
}

// RunForecast runs a batch now and folds it into the served forecast.
// Requires the bearer admin token; returns 401 if missing or invalid.
func (h *AdminHandler) RunForecast(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String("path", r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.runner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "batch runner not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	f, err := h.runner.RunOnce(r.Context(), batcher.TriggerAdmin)
	if err != nil {
		logging.Error(logger, "admin batch failed", err)
		writeError(w, r, http.StatusBadGateway, "forecast batch failed", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"runId":      f.RunID,
		"iterations": f.Iterations,
	}, logger)
	logging.Info(logger, "admin batch complete",
		slog.String(logging.FieldRunID, f.RunID),
		slog.Int(logging.FieldIterations, f.Iterations),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}

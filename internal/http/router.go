package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/worldcup-sim/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/forecast", handler.Forecast)
	mux.HandleFunc("/forecast/summary", handler.Summary)
	mux.HandleFunc("/forecast/teams/", handler.TeamByName)
	mux.HandleFunc("/forecast/runs", handler.Runs)
	mux.HandleFunc("/forecast/runs/", handler.RunByID)
	if admin != nil {
		mux.HandleFunc("/admin/forecast/run", admin.RunForecast)
	}
	return mux
}

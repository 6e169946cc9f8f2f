package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/file"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.TeamProvider {
	switch strings.ToLower(cfg.Provider) {
	case "":
		if cfg.TeamsFile != "" {
			return file.New(cfg.TeamsFile)
		}
		return fixture.New()
	case "fixture":
		return fixture.New()
	case "file":
		if cfg.TeamsFile == "" {
			if logger != nil {
				logger.Warn("file provider without TEAMS_FILE, falling back to fixture")
			}
			return fixture.New()
		}
		return file.New(cfg.TeamsFile)
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}

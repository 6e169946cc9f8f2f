package server

import (
	"log/slog"

	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
)

// providerFactory assembles the provider with shared wrappers.
type providerFactory struct {
	logger *slog.Logger
}

func newProviderFactory(logger *slog.Logger) providerFactory {
	return providerFactory{logger: logger}
}

// build returns the configured provider wrapped with retries, and the name it reports under.
func (f providerFactory) build(cfg config.Config) (providers.TeamProvider, string) {
	base := selectProvider(cfg, f.logger)
	name := normalizeProviderName(cfg.Provider, base)
	return providers.NewRetryingProvider(base, f.logger, name, 0, 0), name
}

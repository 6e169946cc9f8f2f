package server

import (
	"strings"

	"github.com/preston-bernstein/worldcup-sim/internal/providers"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/file"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/fixture"
)

// normalizeProviderName returns a lower-cased provider name, deriving from instance when not explicitly configured.
// Used across server wiring and provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string, provider providers.TeamProvider) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	switch provider.(type) {
	case *file.Provider:
		return "file"
	case *fixture.Provider:
		return "fixture"
	case nil:
		return "provider"
	default:
		return "custom"
	}
}

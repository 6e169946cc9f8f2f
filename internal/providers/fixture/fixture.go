package fixture

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/ratings"
)

// results holds qualifying and friendly results for the 2018 field.
//
//go:embed worldcup2018.txt
var results []byte

// Provider returns the 2018 World Cup field, rated from bundled results.
// Useful for local runs and bootstrapping the service.
type Provider struct {
	raw []byte
}

// New creates a fixture provider over the bundled results.
func New() *Provider {
	return &Provider{raw: results}
}

// FetchTeams derives ratings from the bundled results on every call.
func (p *Provider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	return ratings.Load(bytes.NewReader(p.raw))
}

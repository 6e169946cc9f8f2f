package providers

import (
	"context"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

// TeamProvider supplies the rated field of teams a simulation runs on.
type TeamProvider interface {
	FetchTeams(ctx context.Context) ([]teams.Team, error)
}

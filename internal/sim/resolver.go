package sim

import "github.com/preston-bernstein/worldcup-sim/internal/domain/teams"

// Side identifies one of the two teams in a match.
type Side int

const (
	SideA Side = iota
	SideB
)

// Outcome is the result of a single match.
// Group matches carry both scores; knockout matches only carry Winner.
type Outcome struct {
	GoalsA int
	GoalsB int
	Winner Side
}

// Resolver decides matches. Implementations never mutate team state.
type Resolver interface {
	Play(a, b teams.Team, knockout bool) Outcome
}

// MatchResolver resolves matches with a ScoringModel and a random source.
// Knockout ties are settled by a coin flip.
type MatchResolver struct {
	model ScoringModel
	rng   Source
}

// NewResolver builds a MatchResolver. A nil model falls back to QuotientModel.
func NewResolver(model ScoringModel, rng Source) *MatchResolver {
	if model == nil {
		model = QuotientModel{}
	}
	return &MatchResolver{model: model, rng: rng}
}

// Play implements Resolver.
func (r *MatchResolver) Play(a, b teams.Team, knockout bool) Outcome {
	goalsA := r.model.Goals(a.Attack, b.Defense, r.rng)
	goalsB := r.model.Goals(b.Attack, a.Defense, r.rng)

	if !knockout {
		return Outcome{GoalsA: goalsA, GoalsB: goalsB}
	}

	switch {
	case goalsA > goalsB:
		return Outcome{Winner: SideA}
	case goalsA < goalsB:
		return Outcome{Winner: SideB}
	default:
		return Outcome{Winner: Side(r.rng.IntN(2))}
	}
}

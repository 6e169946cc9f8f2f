package sim

// Source is the randomness consumed by the match engine.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). n must be positive.
	IntN(n int) int
}

// ScoringModel turns one side's attack against the opponent's defense into goals.
type ScoringModel interface {
	Goals(attack, opponentDefense int, rng Source) int
}

// QuotientModel draws a in [0, attack] and d in [0, opponentDefense] and scores a/(1+d),
// truncated. Higher attack raises expected goals; higher defense shrinks them.
type QuotientModel struct{}

// Goals implements ScoringModel.
func (QuotientModel) Goals(attack, opponentDefense int, rng Source) int {
	a := rng.IntN(attack + 1)
	d := rng.IntN(opponentDefense + 1)
	return a / (1 + d)
}

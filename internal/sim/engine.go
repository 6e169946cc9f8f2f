package sim

// Engine plays the group stage and knockout bracket of one tournament.
type Engine struct {
	resolver Resolver
}

// NewEngine builds an Engine around a Resolver.
func NewEngine(resolver Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// SimulateTournament plays every group and then the bracket, tallying into stats.
func (e *Engine) SimulateTournament(groups []*Group, stats Stats) (KnockoutResult, error) {
	if err := checkGroups(groups); err != nil {
		return KnockoutResult{}, err
	}
	for _, g := range groups {
		e.SimulateGroup(g, stats)
	}
	return e.SimulateKnockout(groups, stats)
}

package sim

import "sort"

// Rank is a finishing position inside a group, best first.
type Rank int

const (
	First Rank = iota
	Second
)

// Group is a set of entrants playing a round robin.
// Entrants is the group table stored last place first; it is re-ranked in place
// every run, so the order carries over to the next run's pairings and tie-breaks.
type Group struct {
	Label    string
	Entrants []*Entrant
}

// At returns the entrant holding rank r.
func (g *Group) At(r Rank) *Entrant {
	return g.Entrants[len(g.Entrants)-1-int(r)]
}

// SimulateGroup plays every pair once, ranks the group and tallies the top two.
func (e *Engine) SimulateGroup(g *Group, stats Stats) *Group {
	for _, ent := range g.Entrants {
		ent.Reset()
	}

	for i := 0; i < len(g.Entrants); i++ {
		for j := i + 1; j < len(g.Entrants); j++ {
			a, b := g.Entrants[i], g.Entrants[j]
			out := e.resolver.Play(a.Team, b.Team, false)
			a.record(out.GoalsA, out.GoalsB)
			b.record(out.GoalsB, out.GoalsA)
		}
	}

	RankGroup(g)

	winner, runnerUp := g.At(First), g.At(Second)
	stats[winner.ID].First++
	stats[runnerUp.ID].Second++
	stats[winner.ID].Eighth++
	stats[runnerUp.ID].Eighth++
	return g
}

// RankGroup sorts entrants from last to first by points, then goal difference, then
// goals scored. Entrants level on all three keep their relative order, so the later
// of two fully tied entrants ranks higher.
func RankGroup(g *Group) {
	sort.SliceStable(g.Entrants, func(i, j int) bool {
		return ranksBelow(g.Entrants[i], g.Entrants[j])
	})
}

func ranksBelow(a, b *Entrant) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	if gdA, gdB := a.GoalDifference(), b.GoalDifference(); gdA != gdB {
		return gdA < gdB
	}
	return a.GoalsFor < b.GoalsFor
}

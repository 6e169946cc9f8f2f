package sim

import (
	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

// Entrant is a team plus the standings it builds up during one simulated tournament.
type Entrant struct {
	ID           int // index into Stats
	Team         teams.Team
	Points       int
	GoalsFor     int
	GoalsAgainst int
}

// Reset clears the per-run standings.
func (e *Entrant) Reset() {
	e.Points = 0
	e.GoalsFor = 0
	e.GoalsAgainst = 0
}

// GoalDifference is goals scored minus goals conceded.
func (e *Entrant) GoalDifference() int {
	return e.GoalsFor - e.GoalsAgainst
}

func (e *Entrant) record(scored, conceded int) {
	e.GoalsFor += scored
	e.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		e.Points += 3
	case scored == conceded:
		e.Points++
	}
}

// Stats holds cross-run outcome counts, indexed by Entrant.ID.
// Each worker owns one; they are reduced with Add once all runs finish.
type Stats []forecast.Counts

// NewStats allocates counts for n entrants.
func NewStats(n int) Stats {
	return make(Stats, n)
}

// Add folds other into s. Both must be sized for the same field.
func (s Stats) Add(other Stats) {
	for i := range other {
		s[i].Add(other[i])
	}
}

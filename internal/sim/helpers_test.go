package sim

import (
	"fmt"
	"slices"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

var groupLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// testField returns 32 teams named <group><position>, e.g. "C2", all with positive ratings.
func testField() []teams.Team {
	list := make([]teams.Team, 0, FieldSize)
	for _, label := range groupLabels {
		for pos := 1; pos <= GroupSize; pos++ {
			list = append(list, teams.Team{
				Name:    fmt.Sprintf("%s%d", label, pos),
				Group:   label,
				Attack:  2 + pos,
				Defense: 3 + pos,
			})
		}
	}
	return list
}

// testGroups returns unplayed groups whose tables read as listed: <group>1 holds First,
// <group>2 holds Second.
func testGroups() []*Group {
	partition, err := Partition(testField())
	if err != nil {
		panic(err)
	}
	groups := newField(partition)
	for _, g := range groups {
		slices.Reverse(g.Entrants)
	}
	return groups
}

// firstWins always favours side A: 1-0 in groups, side A in knockouts.
type firstWins struct{}

func (firstWins) Play(a, b teams.Team, knockout bool) Outcome {
	if knockout {
		return Outcome{Winner: SideA}
	}
	return Outcome{GoalsA: 1}
}

// secondWins mirrors firstWins for side B.
type secondWins struct{}

func (secondWins) Play(a, b teams.Team, knockout bool) Outcome {
	if knockout {
		return Outcome{Winner: SideB}
	}
	return Outcome{GoalsB: 1}
}

// strongerWins lets the higher attack rating win regardless of side; equal ratings draw
// in groups and go to side A in knockouts.
type strongerWins struct{}

func (strongerWins) Play(a, b teams.Team, knockout bool) Outcome {
	if knockout {
		if b.Attack > a.Attack {
			return Outcome{Winner: SideB}
		}
		return Outcome{Winner: SideA}
	}
	return Outcome{GoalsA: a.Attack, GoalsB: b.Attack}
}

// attackRigged scores side A's attack rating against zero for side B.
type attackRigged struct{}

func (attackRigged) Play(a, b teams.Team, knockout bool) Outcome {
	if !knockout {
		return Outcome{GoalsA: a.Attack}
	}
	if a.Attack >= 0 {
		return Outcome{Winner: SideA}
	}
	return Outcome{Winner: SideB}
}

// scriptedSource replays vals (mod n) in order.
type scriptedSource struct {
	vals  []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.vals[s.calls%len(s.vals)] % n
	s.calls++
	return v
}

// scriptedResolver returns canned group outcomes in call order.
type scriptedResolver struct {
	outcomes []Outcome
	calls    int
}

func (s *scriptedResolver) Play(a, b teams.Team, knockout bool) Outcome {
	out := s.outcomes[s.calls%len(s.outcomes)]
	s.calls++
	return out
}

package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrGroupCount is returned when the bracket is fed anything other than GroupCount groups.
	ErrGroupCount = errors.New("knockout stage needs exactly 8 groups")
	// ErrGroupSize is returned when a group is too small to supply a winner and runner-up.
	ErrGroupSize = errors.New("group must hold exactly 4 teams")
)

// Slot names the entrant finishing at Rank in the group at index Group.
type Slot struct {
	Group int
	Rank  Rank
}

// Pairing is a round-of-16 match between two group slots. Home plays as side A.
type Pairing struct {
	Home Slot
	Away Slot
}

// RoundOf16 seeds the bracket from group results. Matches 0-3 pit group winners against
// the neighbouring group's runner-up; matches 4-7 swap the roles.
var RoundOf16 = [8]Pairing{
	{Slot{0, First}, Slot{1, Second}},
	{Slot{2, First}, Slot{3, Second}},
	{Slot{4, First}, Slot{5, Second}},
	{Slot{6, First}, Slot{7, Second}},
	{Slot{0, Second}, Slot{1, First}},
	{Slot{2, Second}, Slot{3, First}},
	{Slot{4, Second}, Slot{5, First}},
	{Slot{6, Second}, Slot{7, First}},
}

// Quarterfinals pairs round-of-16 match indexes; the winners meet.
var Quarterfinals = [4][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}}

// Semifinals pairs quarterfinal match indexes.
var Semifinals = [2][2]int{{0, 1}, {2, 3}}

// KnockoutResult records which entrant occupied each stage of one bracket.
type KnockoutResult struct {
	Quarterfinalists [8]*Entrant // round-of-16 winners in match order
	Semifinalists    [4]*Entrant
	Finalists        [2]*Entrant
	Third            *Entrant
	Champion         *Entrant
}

// SimulateKnockout runs the bracket over ranked groups and tallies stages reached.
func (e *Engine) SimulateKnockout(groups []*Group, stats Stats) (KnockoutResult, error) {
	var res KnockoutResult
	if err := checkGroups(groups); err != nil {
		return res, err
	}

	for i, p := range RoundOf16 {
		home := groups[p.Home.Group].At(p.Home.Rank)
		away := groups[p.Away.Group].At(p.Away.Rank)
		winner, _ := e.decide(home, away)
		stats[winner.ID].Quarter++
		res.Quarterfinalists[i] = winner
	}

	for i, m := range Quarterfinals {
		winner, _ := e.decide(res.Quarterfinalists[m[0]], res.Quarterfinalists[m[1]])
		stats[winner.ID].Semi++
		res.Semifinalists[i] = winner
	}

	var losers [2]*Entrant
	for i, m := range Semifinals {
		winner, loser := e.decide(res.Semifinalists[m[0]], res.Semifinalists[m[1]])
		stats[winner.ID].Final++
		res.Finalists[i] = winner
		losers[i] = loser
	}

	third, _ := e.decide(losers[0], losers[1])
	stats[third.ID].Third++
	res.Third = third

	champion, _ := e.decide(res.Finalists[0], res.Finalists[1])
	stats[champion.ID].Winner++
	res.Champion = champion

	return res, nil
}

func (e *Engine) decide(a, b *Entrant) (winner, loser *Entrant) {
	if e.resolver.Play(a.Team, b.Team, true).Winner == SideA {
		return a, b
	}
	return b, a
}

func checkGroups(groups []*Group) error {
	if len(groups) != GroupCount {
		return fmt.Errorf("got %d groups: %w", len(groups), ErrGroupCount)
	}
	for _, g := range groups {
		if len(g.Entrants) != GroupSize {
			return fmt.Errorf("group %s has %d teams: %w", g.Label, len(g.Entrants), ErrGroupSize)
		}
	}
	return nil
}

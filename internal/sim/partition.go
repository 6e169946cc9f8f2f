package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

// Tournament shape: 8 groups of 4 feeding a 16-team bracket.
const (
	GroupSize  = 4
	GroupCount = 8
	FieldSize  = GroupSize * GroupCount
)

var (
	// ErrTeamCount is returned when the field is not exactly FieldSize teams.
	ErrTeamCount = errors.New("world cup field must have exactly 32 teams")
	// ErrMixedGroup is returned when a chunk of four does not share one group label.
	ErrMixedGroup = errors.New("each group label must hold exactly 4 teams")
	// ErrDuplicateTeam is returned when two teams share a name.
	ErrDuplicateTeam = errors.New("duplicate team name")
)

// Partition validates the field and splits it into groups of four, ordered by group label.
// Teams keep their input order within a group.
func Partition(list []teams.Team) ([][]teams.Team, error) {
	if err := teams.ValidateAll(list); err != nil {
		return nil, err
	}
	if len(list) != FieldSize {
		if len(list)%GroupSize != 0 {
			return nil, fmt.Errorf("got %d teams, not a multiple of %d: %w", len(list), GroupSize, ErrTeamCount)
		}
		return nil, fmt.Errorf("got %d teams: %w", len(list), ErrTeamCount)
	}

	seen := make(map[string]struct{}, len(list))
	for _, t := range list {
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("%q: %w", t.Name, ErrDuplicateTeam)
		}
		seen[t.Name] = struct{}{}
	}

	sorted := append([]teams.Team(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Group < sorted[j].Group
	})

	groups := make([][]teams.Team, 0, GroupCount)
	for i := 0; i < len(sorted); i += GroupSize {
		chunk := sorted[i : i+GroupSize]
		for _, t := range chunk[1:] {
			if t.Group != chunk[0].Group {
				return nil, fmt.Errorf("group %s and %s share a slot: %w", chunk[0].Group, t.Group, ErrMixedGroup)
			}
		}
		if n := len(groups); n > 0 && groups[n-1][0].Group == chunk[0].Group {
			return nil, fmt.Errorf("group %s has more than %d teams: %w", chunk[0].Group, GroupSize, ErrMixedGroup)
		}
		groups = append(groups, chunk)
	}
	return groups, nil
}

// newField builds a fresh set of entrants and groups from a partition.
// Entrant IDs follow partition order.
func newField(partition [][]teams.Team) []*Group {
	groups := make([]*Group, len(partition))
	id := 0
	for gi, members := range partition {
		g := &Group{Label: members[0].Group, Entrants: make([]*Entrant, len(members))}
		for mi, t := range members {
			g.Entrants[mi] = &Entrant{ID: id, Team: t}
			id++
		}
		groups[gi] = g
	}
	return groups
}

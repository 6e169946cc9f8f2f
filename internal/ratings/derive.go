package ratings

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

// Rating bounds produced by Derive.
const (
	MaxRating  = 8
	MinAttack  = 2
	MinDefense = 3
)

// ErrDegenerate is returned when the raw values leave nothing to rescale against.
var ErrDegenerate = errors.New("cannot rescale identical raw ratings")

// Load parses raw results and derives team ratings in one step.
func Load(r io.Reader) ([]teams.Team, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Derive(records)
}

// Derive turns raw results into integer ratings.
//
// Goals conceded per match are mapped linearly so the leakiest team gets defense 1 and the
// tightest gets 8; goals scored per match map the weakest attack to 1 and the strongest to 8.
// Both are rounded half to even and then shifted by level: H +2, MH +1 (capped at 8),
// L -1 (floored at MinAttack or MinDefense).
//
// The result is ordered by group label; within a group, by raw attack, strongest first.
func Derive(records []Record) ([]teams.Team, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%d teams: %w", len(records), ErrDegenerate)
	}

	type row struct {
		rec             Record
		rawAtt, rawDef  float64
		attack, defense int
	}
	rows := make([]*row, len(records))
	for i, rec := range records {
		rows[i] = &row{
			rec:    rec,
			rawAtt: rec.Scored / rec.Matches,
			rawDef: rec.Conceded / rec.Matches,
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].rawDef < rows[j].rawDef })
	lo, hi := rows[0].rawDef, rows[len(rows)-1].rawDef
	if hi == lo {
		return nil, fmt.Errorf("goals conceded: %w", ErrDegenerate)
	}
	slope := -7 / (hi - lo)
	offset := 1 - hi*slope
	for _, r := range rows {
		r.defense = adjust(rescale(offset, slope, r.rawDef), r.rec.Level, MinDefense)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].rawAtt > rows[j].rawAtt })
	hi, lo = rows[0].rawAtt, rows[len(rows)-1].rawAtt
	if hi == lo {
		return nil, fmt.Errorf("goals scored: %w", ErrDegenerate)
	}
	slope = 7 / (hi - lo)
	offset = 1 - lo*slope
	for _, r := range rows {
		r.attack = adjust(rescale(offset, slope, r.rawAtt), r.rec.Level, MinAttack)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].rec.Group < rows[j].rec.Group })

	out := make([]teams.Team, 0, len(rows))
	for _, r := range rows {
		t, err := teams.New(r.rec.Name, r.rec.Group, r.attack, r.defense)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func rescale(offset, slope, v float64) int {
	return int(math.RoundToEven(offset + slope*v))
}

func adjust(v int, level Level, floor int) int {
	switch level {
	case LevelHigh:
		return min(v+2, MaxRating)
	case LevelMediumHigh:
		return min(v+1, MaxRating)
	case LevelLow:
		return max(v-1, floor)
	}
	return v
}

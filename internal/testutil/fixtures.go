package testutil

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

var sampleGroups = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// SampleField returns 32 valid teams, four per group, named "A1".."H4".
// Ratings fall with the rank within the group.
func SampleField() []teams.Team {
	out := make([]teams.Team, 0, 32)
	for _, g := range sampleGroups {
		for rank := 1; rank <= 4; rank++ {
			out = append(out, teams.Team{
				Name:    fmt.Sprintf("%s%d", g, rank),
				Group:   g,
				Attack:  9 - rank,
				Defense: 9 - rank,
			})
		}
	}
	return out
}

// SampleForecast builds a forecast over the first two teams of SampleField.
// The first team won every title.
func SampleForecast(runID string, iterations int) forecast.Forecast {
	field := SampleField()
	entries := []forecast.TeamForecast{
		{
			Team: field[1],
			Counts: forecast.Counts{
				Second: iterations,
				Eighth: iterations,
			},
		},
		{
			Team: field[0],
			Counts: forecast.Counts{
				First:   iterations,
				Eighth:  iterations,
				Quarter: iterations,
				Semi:    iterations,
				Final:   iterations,
				Winner:  iterations,
			},
		},
	}
	at := time.Date(2018, 6, 14, 15, 0, 0, 0, time.UTC)
	return forecast.New(runID, iterations, 42, entries, at)
}

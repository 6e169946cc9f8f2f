package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

// ErrTeamMismatch is returned when two forecasts do not cover the same field of teams.
var ErrTeamMismatch = errors.New("forecasts cover different teams")

// Counts holds how often a team reached each outcome across simulated tournaments.
type Counts struct {
	First   int `json:"first"`
	Second  int `json:"second"`
	Eighth  int `json:"eighth"` // qualified for the round of 16
	Quarter int `json:"quarter"`
	Semi    int `json:"semi"`
	Third   int `json:"third"`
	Final   int `json:"final"`
	Winner  int `json:"winner"`
}

// Add folds other into c.
func (c *Counts) Add(other Counts) {
	c.First += other.First
	c.Second += other.Second
	c.Eighth += other.Eighth
	c.Quarter += other.Quarter
	c.Semi += other.Semi
	c.Third += other.Third
	c.Final += other.Final
	c.Winner += other.Winner
}

// Nested reports whether every stage count is bounded by the stage before it.
func (c Counts) Nested() bool {
	return c.Winner <= c.Final &&
		c.Final <= c.Semi &&
		c.Semi <= c.Quarter &&
		c.Quarter <= c.Eighth &&
		c.Third <= c.Semi &&
		c.First+c.Second == c.Eighth
}

// Probabilities are Counts normalized by the number of simulated tournaments.
type Probabilities struct {
	First   float64 `json:"first"`
	Second  float64 `json:"second"`
	Eighth  float64 `json:"eighth"`
	Quarter float64 `json:"quarter"`
	Semi    float64 `json:"semi"`
	Third   float64 `json:"third"`
	Final   float64 `json:"final"`
	Winner  float64 `json:"winner"`
}

// Probabilities divides each count by iterations. Zero iterations yields zero values.
func (c Counts) Probabilities(iterations int) Probabilities {
	if iterations <= 0 {
		return Probabilities{}
	}
	n := float64(iterations)
	return Probabilities{
		First:   float64(c.First) / n,
		Second:  float64(c.Second) / n,
		Eighth:  float64(c.Eighth) / n,
		Quarter: float64(c.Quarter) / n,
		Semi:    float64(c.Semi) / n,
		Third:   float64(c.Third) / n,
		Final:   float64(c.Final) / n,
		Winner:  float64(c.Winner) / n,
	}
}

// TeamForecast is one team's aggregated outcome.
type TeamForecast struct {
	Team          teams.Team    `json:"team"`
	Counts        Counts        `json:"counts"`
	Probabilities Probabilities `json:"probabilities"`
}

// Forecast is the aggregate result of a set of simulated tournaments.
type Forecast struct {
	RunID       string         `json:"runId"`
	Iterations  int            `json:"iterations"`
	Seed        uint64         `json:"seed"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Teams       []TeamForecast `json:"teams"`
}

// New builds a Forecast, filling probabilities and ordering teams by titles won.
func New(runID string, iterations int, seed uint64, entries []TeamForecast, at time.Time) Forecast {
	f := Forecast{
		RunID:       runID,
		Iterations:  iterations,
		Seed:        seed,
		GeneratedAt: at.UTC(),
		Teams:       append([]TeamForecast(nil), entries...),
	}
	f.normalize()
	return f
}

// IsEmpty reports whether no tournaments have been aggregated.
func (f Forecast) IsEmpty() bool {
	return f.Iterations == 0 || len(f.Teams) == 0
}

// Team looks up a team by name, ignoring case.
func (f Forecast) Team(name string) (TeamForecast, bool) {
	for _, tf := range f.Teams {
		if strings.EqualFold(tf.Team.Name, name) {
			return tf, true
		}
	}
	return TeamForecast{}, false
}

// Merge adds the counts of other into a copy of f. Both must cover the same teams.
// The merged forecast keeps f's run id and seed and takes other's timestamp.
func (f Forecast) Merge(other Forecast) (Forecast, error) {
	if f.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return f, nil
	}
	if len(f.Teams) != len(other.Teams) {
		return Forecast{}, fmt.Errorf("%d vs %d teams: %w", len(f.Teams), len(other.Teams), ErrTeamMismatch)
	}
	byName := make(map[string]Counts, len(other.Teams))
	for _, tf := range other.Teams {
		byName[tf.Team.Name] = tf.Counts
	}

	merged := make([]TeamForecast, len(f.Teams))
	for i, tf := range f.Teams {
		add, ok := byName[tf.Team.Name]
		if !ok {
			return Forecast{}, fmt.Errorf("team %q: %w", tf.Team.Name, ErrTeamMismatch)
		}
		tf.Counts.Add(add)
		merged[i] = tf
	}
	return New(f.RunID, f.Iterations+other.Iterations, f.Seed, merged, other.GeneratedAt), nil
}

func (f *Forecast) normalize() {
	for i := range f.Teams {
		f.Teams[i].Probabilities = f.Teams[i].Counts.Probabilities(f.Iterations)
	}
	sort.SliceStable(f.Teams, func(i, j int) bool {
		return f.Teams[i].Counts.Winner > f.Teams[j].Counts.Winner
	})
}

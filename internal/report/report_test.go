package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
)

func sampleForecast() forecast.Forecast {
	entries := []forecast.TeamForecast{
		{
			Team:   teams.Team{Name: "Costa Rica", Group: "E"},
			Counts: forecast.Counts{First: 1, Second: 2, Eighth: 3},
		},
		{
			Team:   teams.Team{Name: "Brazil", Group: "E"},
			Counts: forecast.Counts{First: 6, Second: 2, Eighth: 8, Quarter: 6, Semi: 4, Final: 3, Winner: 2, Third: 1},
		},
	}
	return forecast.New("run-7", 8, 42, entries, time.Unix(0, 0))
}

func TestWriteRendersHeaderAndRowsInOrder(t *testing.T) {
	out := String(sampleForecast())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if !strings.HasPrefix(lines[0], "8 simulated tournaments (run run-7, seed 42)") {
		t.Fatalf("unexpected summary line %q", lines[0])
	}
	if !strings.Contains(lines[2], "TEAM") || !strings.Contains(lines[2], "WIN") {
		t.Fatalf("expected column header, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Brazil") || !strings.Contains(lines[4], "Costa Rica") {
		t.Fatalf("expected champion-first ordering, got %q / %q", lines[3], lines[4])
	}
	fields := strings.Fields(lines[3])
	if fields[len(fields)-1] != "25.0" || fields[len(fields)-2] != "37.5" {
		t.Fatalf("unexpected percentages %v", fields)
	}
}

func TestWriteAlignsColumns(t *testing.T) {
	out := String(sampleForecast())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")[2:]
	width := len(lines[0])
	for _, l := range lines[1:] {
		if len(l) != width {
			t.Fatalf("expected aligned rows of width %d, got %d: %q", width, len(l), l)
		}
	}
}

func TestWriteEmptyForecast(t *testing.T) {
	out := String(forecast.Forecast{})
	if !strings.HasPrefix(out, "0 simulated tournaments") {
		t.Fatalf("unexpected output %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWritePropagatesWriterErrors(t *testing.T) {
	if err := Write(failingWriter{}, sampleForecast()); err == nil {
		t.Fatalf("expected write error")
	}
}

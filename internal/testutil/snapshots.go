package testutil

import (
	"testing"

	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T, retention int) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir(), retention)
}

// WriteSnapshot writes a SampleForecast snapshot for runID.
func WriteSnapshot(t *testing.T, w *snapshots.Writer, runID string) {
	t.Helper()
	if err := writeSnapshotPayload(w, runID); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", runID, err)
	}
}

func writeSnapshotPayload(w *snapshots.Writer, runID string) error {
	return w.WriteForecast(SampleForecast(runID, 10))
}

// SnapshotPath returns the expected file path for a run's snapshot.
func SnapshotPath(w *snapshots.Writer, runID string) string {
	return snapshots.ForecastSnapshotPath(w.BasePath(), runID)
}

package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

const defaultRetention = 10

// Writer persists forecast snapshots and a manifest that keeps the newest runs.
type Writer struct {
	basePath  string
	retention int
	now       func() time.Time
}

// NewWriter constructs a writer rooted at basePath keeping the last retention runs.
func NewWriter(basePath string, retention int) *Writer {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Writer{
		basePath:  basePath,
		retention: retention,
		now:       time.Now,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteForecast writes f under its run id, then records it in the manifest and prunes
// runs beyond the retention window. Rewriting a run id replaces that run's snapshot.
func (w *Writer) WriteForecast(f forecast.Forecast) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if err := checkRunID(f.RunID); err != nil {
		return err
	}

	target := ForecastSnapshotPath(w.basePath, f.RunID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode forecast: %w", err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(RunMeta{RunID: f.RunID, Iterations: f.Iterations, GeneratedAt: f.GeneratedAt})
}

func (w *Writer) updateManifest(meta RunMeta) error {
	m, _ := readManifest(manifestPath(w.basePath), w.retention)
	m.Retention = w.retention

	runs := []RunMeta{meta}
	for _, r := range m.Runs {
		if r.RunID != meta.RunID {
			runs = append(runs, r)
		}
	}
	if len(runs) > w.retention {
		for _, r := range runs[w.retention:] {
			if checkRunID(r.RunID) == nil {
				_ = os.Remove(ForecastSnapshotPath(w.basePath, r.RunID))
			}
		}
		runs = runs[:w.retention]
	}
	m.Runs = runs

	return writeManifest(w.basePath, m, w.now())
}

package snapshots

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const forecastsDir = "forecasts"

// ErrInvalidRunID is returned for run ids that cannot be used as a file name.
var ErrInvalidRunID = errors.New("invalid run id")

// ForecastSnapshotPath builds the path to the snapshot of a run.
func ForecastSnapshotPath(basePath, runID string) string {
	return filepath.Join(basePath, forecastsDir, fmt.Sprintf("%s.json", runID))
}

func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return fmt.Errorf("%q: %w", runID, ErrInvalidRunID)
	}
	return nil
}

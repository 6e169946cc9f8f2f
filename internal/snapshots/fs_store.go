package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

// ErrNoSnapshots is returned by Latest when no run has been written yet.
var ErrNoSnapshots = errors.New("no forecast snapshots")

// Store defines how snapshots are loaded.
type Store interface {
	LoadForecast(runID string) (forecast.Forecast, error)
	Runs() ([]RunMeta, error)
	Latest() (forecast.Forecast, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadForecast reads the snapshot for runID from {basePath}/forecasts/{runID}.json.
func (s *FSStore) LoadForecast(runID string) (forecast.Forecast, error) {
	if s == nil {
		return forecast.Forecast{}, errors.New("snapshot store not configured")
	}
	if err := checkRunID(runID); err != nil {
		return forecast.Forecast{}, err
	}
	var f forecast.Forecast
	if err := decodeFile(ForecastSnapshotPath(s.basePath, runID), &f); err != nil {
		return forecast.Forecast{}, err
	}
	return f, nil
}

// Runs lists retained runs, newest first. A missing manifest yields no runs.
func (s *FSStore) Runs() ([]RunMeta, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	var m Manifest
	if err := decodeFile(manifestPath(s.basePath), &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMeta{}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m.Runs, nil
}

// Latest loads the newest retained run.
func (s *FSStore) Latest() (forecast.Forecast, error) {
	runs, err := s.Runs()
	if err != nil {
		return forecast.Forecast{}, err
	}
	if len(runs) == 0 {
		return forecast.Forecast{}, ErrNoSnapshots
	}
	return s.LoadForecast(runs[0].RunID)
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}

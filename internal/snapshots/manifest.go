package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks the retained forecast snapshots, newest first.
type Manifest struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Retention   int       `json:"retention"`
	Runs        []RunMeta `json:"runs"`
}

// RunMeta summarizes one stored run.
type RunMeta struct {
	RunID       string    `json:"runId"`
	Iterations  int       `json:"iterations"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func defaultManifest(retention int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Retention:   retention,
		Runs:        []RunMeta{},
	}
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}

func readManifest(path string, retention int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retention), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retention), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	path := manifestPath(basePath)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

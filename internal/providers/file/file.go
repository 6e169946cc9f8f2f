package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/teams"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
	"github.com/preston-bernstein/worldcup-sim/internal/ratings"
)

// Document is the on-disk shape of a ratings file in YAML or JSON.
type Document struct {
	Teams []teams.Team `json:"teams" yaml:"teams"`
}

// Provider loads teams from a local file, picking the decoder by extension:
// .yaml/.yml and .json hold ready-made ratings; .txt holds raw results to derive them from.
type Provider struct {
	path     string
	readFile func(string) ([]byte, error)
}

// New creates a file provider for path.
func New(path string) *Provider {
	return &Provider{path: path, readFile: os.ReadFile}
}

// Path returns the file the provider reads.
func (p *Provider) Path() string {
	return p.path
}

// FetchTeams reads and decodes the file on every call.
func (p *Provider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(p.path))
	switch ext {
	case ".yaml", ".yml", ".json", ".txt":
	default:
		return nil, fmt.Errorf("%s: %w", p.path, providers.ErrUnsupportedFormat)
	}

	raw, err := p.readFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read teams file: %w", err)
	}

	var list []teams.Team
	switch ext {
	case ".txt":
		list, err = ratings.Load(bytes.NewReader(raw))
	case ".json":
		list, err = decodeJSON(raw)
	default:
		list, err = decodeYAML(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}
	return normalize(list)
}

func decodeYAML(raw []byte) ([]teams.Team, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.Teams, nil
}

func decodeJSON(raw []byte) ([]teams.Team, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc.Teams, nil
}

func normalize(list []teams.Team) ([]teams.Team, error) {
	out := make([]teams.Team, 0, len(list))
	for _, t := range list {
		clean, err := teams.New(t.Name, t.Group, t.Attack, t.Defense)
		if err != nil {
			return nil, err
		}
		out = append(out, clean)
	}
	return out, nil
}

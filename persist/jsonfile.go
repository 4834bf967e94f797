package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"auroraengine/errs"
)

// JSONFileAdapter persists a Project as indented JSON on disk, following
// the same Default/Load/Save shape as the teacher's own user-preferences
// store (client/internal/config/config.go) — one file, overwritten in
// place with os.WriteFile (not atomically), directory created on demand.
type JSONFileAdapter struct {
	path string
	warn errs.Sink
}

// NewJSONFileAdapter returns an adapter that reads/writes path.
func NewJSONFileAdapter(path string, warn errs.Sink) *JSONFileAdapter {
	return &JSONFileAdapter{path: path, warn: warn}
}

// Default returns an empty Project at the current schema version.
func Default() Project {
	return Project{
		Version:  SchemaVersion,
		Networks: make(map[string]NetworkRecord),
	}
}

// Save writes p to disk as indented JSON, creating the parent directory if
// needed.
func (a *JSONFileAdapter) Save(p Project) error {
	if p.Version == "" {
		p.Version = SchemaVersion
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o750); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(a.path, data, 0o600); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// Load reads and validates the project file (spec §6 load rules): a
// missing version field is rejected outright; a mismatched minor version
// warns but still loads. A missing file is not an error — a fresh
// Default() project is returned, matching the teacher's "missing config is
// not an error" convention; a file that exists but cannot be read or
// decoded is returned as an error.
func (a *JSONFileAdapter) Load() (Project, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Project{}, fmt.Errorf("read project file: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	if p.Version == "" {
		return Project{}, fmt.Errorf("project file has no version field")
	}
	if p.Version != SchemaVersion {
		errs.Emit(a.warn, errs.InvalidInput, fmt.Sprintf("project version %q does not match engine version %q", p.Version, SchemaVersion))
	}
	if p.Networks == nil {
		p.Networks = make(map[string]NetworkRecord)
	}
	return p, nil
}

// Package manifest loads the project's package.json and builds the
// protected-package policy used to veto automatic removals.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file read from the project root.
const FileName = "package.json"

// Manifest is an immutable snapshot of the project's declared metadata,
// read once per invocation.
type Manifest struct {
	Name            string
	Version         string
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string
	Engines         map[string]string

	// Protected holds the user-declared protected package names from the
	// "depdoctor" config key. Merged additively into the built-in set.
	Protected []string
}

// ReadError reports a manifest that is absent, unreadable, or not valid JSON.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read manifest %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// rawManifest matches the package.json shape we care about. Unknown fields
// are ignored; missing fields default to empty collections.
type rawManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
	Engines         map[string]string `json:"engines"`
	Depdoctor       struct {
		Protected []string `json:"protected"`
	} `json:"depdoctor"`
}

// Load reads and validates the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	m := &Manifest{
		Name:            raw.Name,
		Version:         raw.Version,
		Dependencies:    raw.Dependencies,
		DevDependencies: raw.DevDependencies,
		Scripts:         raw.Scripts,
		Engines:         raw.Engines,
		Protected:       raw.Depdoctor.Protected,
	}

	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
	if m.Scripts == nil {
		m.Scripts = map[string]string{}
	}
	if m.Engines == nil {
		m.Engines = map[string]string{}
	}

	return m, nil
}

// DependencyCount returns the number of declared production and dev
// dependencies combined.
func (m *Manifest) DependencyCount() int {
	return len(m.Dependencies) + len(m.DevDependencies)
}

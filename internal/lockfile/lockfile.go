// Package lockfile walks the package-lock.json dependency tree and reports
// packages resolved to more than one distinct version.
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileName is the lockfile read from the project root.
const FileName = "package-lock.json"

// DuplicateEntry is a package name resolved to multiple distinct versions
// across the tree.
type DuplicateEntry struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
	Count    int      `json:"count"`
}

// Report is the result of one duplicate scan.
type Report struct {
	// Duplicates are ordered by first visit during the walk.
	Duplicates []DuplicateEntry `json:"duplicates"`

	// TotalPackages counts every (name, version) occurrence visited,
	// including non-duplicated ones.
	TotalPackages int `json:"totalPackages"`

	// LockfileExists is false when no lockfile is present; that is an
	// informational state, not an error.
	LockfileExists bool `json:"lockFileExists"`
}

// ParseError reports a malformed lockfile. A missing lockfile is not an
// error; only parse failures are.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse lockfile %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// lockData covers both supported lockfile shapes: the flat path-keyed
// "packages" map (lockfileVersion 2/3) and the legacy nested "dependencies"
// structure (lockfileVersion 1).
type lockData struct {
	LockfileVersion int                       `json:"lockfileVersion"`
	Packages        map[string]lockPackage    `json:"packages"`
	Dependencies    map[string]lockDependency `json:"dependencies"`
}

type lockPackage struct {
	Version string `json:"version"`
}

type lockDependency struct {
	Version      string                    `json:"version"`
	Dependencies map[string]lockDependency `json:"dependencies"`
}

// FindDuplicates scans the lockfile at path. Missing file returns
// LockfileExists=false with empty results.
func FindDuplicates(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Report{LockfileExists: false}, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var lock lockData
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	report := &Report{LockfileExists: true}

	var order []string
	versions := make(map[string][]string)

	visit := func(name, version string) {
		report.TotalPackages++
		seen := versions[name]
		if seen == nil {
			order = append(order, name)
		}
		for _, v := range seen {
			if v == version {
				return
			}
		}
		versions[name] = append(seen, version)
	}

	walkerFor(&lock).walk(visit)

	for _, name := range order {
		if v := versions[name]; len(v) > 1 {
			report.Duplicates = append(report.Duplicates, DuplicateEntry{
				Name:     name,
				Versions: v,
				Count:    len(v),
			})
		}
	}

	return report, nil
}

// walkerFor picks the traversal adapter for the lockfile's shape. Modern
// lockfiles carry both shapes during migration; the flat map wins since it
// is the authoritative one for lockfileVersion >= 2.
func walkerFor(lock *lockData) treeWalker {
	if len(lock.Packages) > 0 {
		return &packagesWalker{packages: lock.Packages}
	}
	return &legacyWalker{deps: lock.Dependencies}
}

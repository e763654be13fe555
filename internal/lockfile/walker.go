package lockfile

import (
	"sort"
	"strings"
)

// treeWalker visits every resolved (name, version) node in a lockfile tree.
// Both adapters walk in sorted-key order so repeated scans over the same
// content produce identical reports.
type treeWalker interface {
	walk(visit func(name, version string))
}

// packagesWalker traverses the flat map keyed by node_modules paths
// (lockfileVersion 2/3).
type packagesWalker struct {
	packages map[string]lockPackage
}

func (w *packagesWalker) walk(visit func(name, version string)) {
	keys := make([]string, 0, len(w.packages))
	for k := range w.packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		// The "" key is the root project itself, not a dependency.
		if key == "" {
			continue
		}
		pkg := w.packages[key]
		if pkg.Version == "" {
			continue
		}
		visit(packageNameFromPath(key), pkg.Version)
	}
}

// packageNameFromPath extracts the package name from a node_modules path
// key, e.g. "node_modules/foo/node_modules/@scope/bar" -> "@scope/bar".
func packageNameFromPath(path string) string {
	const marker = "node_modules/"
	if idx := strings.LastIndex(path, marker); idx >= 0 {
		return path[idx+len(marker):]
	}
	return path
}

// legacyWalker recursively traverses the nested dependencies structure
// (lockfileVersion 1), descending into a node's subtree before moving on.
type legacyWalker struct {
	deps map[string]lockDependency
}

func (w *legacyWalker) walk(visit func(name, version string)) {
	walkDeps(w.deps, visit)
}

func walkDeps(deps map[string]lockDependency, visit func(name, version string)) {
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		dep := deps[name]
		if dep.Version != "" {
			visit(name, dep.Version)
		}
		if len(dep.Dependencies) > 0 {
			walkDeps(dep.Dependencies, visit)
		}
	}
}

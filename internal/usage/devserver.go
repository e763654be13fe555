package usage

import (
	"os"
	"path/filepath"
	"strings"
)

// devServerConfigGlobs match dev-server configuration files that depcheck's
// bundler specials can miss. A package named in one of these files counts as
// used.
var devServerConfigGlobs = []string{
	"vite.config.*",
	"webpack.dev.*",
	"server.config.*",
}

// devServerConfigUsage reports which of the candidate package names appear
// in a dev-server config file at the project root. Unreadable files are
// skipped; this pass only rescues false positives.
func devServerConfigUsage(dir string, candidates []string) map[string]bool {
	used := make(map[string]bool)
	if len(candidates) == 0 {
		return used
	}

	for _, glob := range devServerConfigGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			continue
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			content := string(data)
			for _, name := range candidates {
				if used[name] {
					continue
				}
				if containsPackageRef(content, name) {
					used[name] = true
				}
			}
		}
	}

	return used
}

// containsPackageRef looks for the package name inside quotes, the way it
// would appear in an import or require statement.
func containsPackageRef(content, name string) bool {
	return strings.Contains(content, `"`+name+`"`) ||
		strings.Contains(content, `'`+name+`'`) ||
		strings.Contains(content, "`"+name+"`")
}

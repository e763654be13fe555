// Package usage invokes the depcheck static analyzer over the project
// source tree and filters its findings through the protection policy.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/runner"
)

// ignorePatterns are build-output directories excluded from the scan.
var ignorePatterns = []string{
	"dist",
	"build",
	"coverage",
	".next",
	".nuxt",
	".cache",
	".parcel-cache",
}

// Report classifies the analyzer's findings for one scan.
type Report struct {
	// UnusedProduction and UnusedDev are safe to report and remove.
	UnusedProduction []string
	UnusedDev        []string

	// Missing maps packages imported in source but absent from the
	// manifest to the files referencing them. Passed through unmodified.
	Missing map[string][]string

	// ProtectedUnused holds names flagged unused but vetoed by policy.
	// Informational only; never offered for removal.
	ProtectedUnused []string

	// Advisories are non-blocking warnings for unused packages whose names
	// suggest dynamic or config-only usage.
	Advisories []string
}

// UnusedCount returns the number of removable unused packages.
func (r *Report) UnusedCount() int {
	return len(r.UnusedProduction) + len(r.UnusedDev)
}

// Combined returns the removable unused packages, production first.
func (r *Report) Combined() []string {
	out := make([]string, 0, r.UnusedCount())
	out = append(out, r.UnusedProduction...)
	out = append(out, r.UnusedDev...)
	return out
}

// ScanError reports an analyzer invocation or parse failure. The scan never
// returns a silent partial result.
type ScanError struct {
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("dependency usage scan failed: %v", e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// depcheckOutput matches depcheck's --json output shape.
type depcheckOutput struct {
	Dependencies    []string            `json:"dependencies"`
	DevDependencies []string            `json:"devDependencies"`
	Missing         map[string][]string `json:"missing"`
}

// Scanner runs depcheck and classifies its results.
type Scanner struct {
	Runner runner.CommandRunner
	Logger *log.Logger

	// DynamicUse flags package names that are plausibly used only from
	// config files or loaded dynamically. Advisory only; it never changes
	// removal eligibility. Nil means DynamicUsageLikely.
	DynamicUse func(name string) bool
}

// Scan analyzes dir and partitions unused findings against protected.
func (s *Scanner) Scan(ctx context.Context, dir string, protected *manifest.ProtectedSet) (*Report, error) {
	args := []string{
		"--no-install",
		"depcheck",
		"--json",
		"--ignore-patterns=" + strings.Join(ignorePatterns, ","),
	}

	if s.Logger != nil {
		s.Logger.Debug("running usage analyzer", "command", "npx "+strings.Join(args, " "))
	}

	res, err := s.Runner.Run(ctx, "npx", args...)
	if err != nil {
		return nil, &ScanError{Err: err}
	}

	// depcheck exits non-zero when it finds issues; the JSON on stdout is
	// still the authoritative result.
	var out depcheckOutput
	if err := json.Unmarshal(res.Stdout, &out); err != nil {
		return nil, &ScanError{Err: fmt.Errorf("failed to parse analyzer output: %w", err)}
	}

	report := &Report{Missing: out.Missing}
	if report.Missing == nil {
		report.Missing = map[string][]string{}
	}

	configUsed := devServerConfigUsage(dir, append(out.Dependencies, out.DevDependencies...))

	dynamicUse := s.DynamicUse
	if dynamicUse == nil {
		dynamicUse = DynamicUsageLikely
	}

	partition := func(names []string, dst *[]string) {
		for _, name := range names {
			if configUsed[name] {
				continue
			}
			if protected.Vetoes(name) {
				report.ProtectedUnused = append(report.ProtectedUnused, name)
				continue
			}
			*dst = append(*dst, name)
			if dynamicUse(name) {
				report.Advisories = append(report.Advisories, fmt.Sprintf(
					"%s appears unused but its name suggests dynamic or config-only usage; "+
						"consider adding it to the protected list in package.json", name))
			}
		}
	}

	partition(out.Dependencies, &report.UnusedProduction)
	partition(out.DevDependencies, &report.UnusedDev)

	sort.Strings(report.ProtectedUnused)

	return report, nil
}

// dynamicTokens flag names commonly referenced only from configuration:
// plugin loaders, bundlers, animation libraries.
var dynamicTokens = []string{"plugin", "loader", "webpack", "rollup", "vite", "animate"}

// DynamicUsageLikely is the default advisory predicate over package names.
func DynamicUsageLikely(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range dynamicTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

package output

import (
	"encoding/json"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/lockfile"
	"github.com/humboldt-labs/depdoctor/internal/registry"
	"github.com/humboldt-labs/depdoctor/internal/report"
)

// jsonReport is the aggregated data structure emitted by summary --json.
type jsonReport struct {
	Project string `json:"project"`
	Version string `json:"version"`
	Score   int    `json:"score"`
	Band    string `json:"band"`

	Unused struct {
		Dependencies    []string `json:"dependencies"`
		DevDependencies []string `json:"devDependencies"`
		Protected       []string `json:"protected"`
	} `json:"unused"`

	Missing    map[string][]string               `json:"missing"`
	Outdated   map[string]registry.OutdatedEntry `json:"outdated"`
	Audit      *registry.AuditReport             `json:"vulnerabilities"`
	Duplicates *lockfile.Report                  `json:"duplicates"`

	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Degraded    []string `json:"degraded,omitempty"`
}

// MarshalReport emits the raw aggregated report as indented JSON.
func MarshalReport(r *report.Report, h *health.Result) ([]byte, error) {
	out := jsonReport{
		Project:     r.Manifest.Name,
		Version:     r.Manifest.Version,
		Score:       h.Score,
		Band:        health.Band(h.Score),
		Missing:     r.Usage.Missing,
		Outdated:    r.Outdated,
		Audit:       r.Audit,
		Duplicates:  r.Duplicates,
		Issues:      h.Issues,
		Suggestions: h.Suggestions,
		Degraded:    r.Degraded,
	}
	out.Unused.Dependencies = emptyIfNil(r.Usage.UnusedProduction)
	out.Unused.DevDependencies = emptyIfNil(r.Usage.UnusedDev)
	out.Unused.Protected = emptyIfNil(r.Usage.ProtectedUnused)

	return json.MarshalIndent(out, "", "  ")
}

// emptyIfNil keeps JSON output stable: empty arrays instead of null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

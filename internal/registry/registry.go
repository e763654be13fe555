// Package registry talks to the npm CLI: outdated/audit read queries and the
// install-side write actions used by the fix orchestrator.
//
// npm exits non-zero when outdated packages or vulnerabilities exist while
// still printing valid JSON, so read queries apply a parse-first policy: the
// exit code is ignored and stdout is parsed regardless. Only a parse failure
// or total absence of output yields an empty result.
package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/humboldt-labs/depdoctor/internal/runner"
)

// selfRenderingDep is depdoctor's own pinned rendering dependency. It is
// dropped from outdated reports to avoid false self-reporting. Fixed
// exclusion, not user-configurable.
const selfRenderingDep = "chalk"

// OutdatedEntry describes one package behind its registry versions.
type OutdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// Severity classifies the current-to-latest gap as major, minor, or patch.
// Versions that do not parse as semver yield "unknown".
func (e OutdatedEntry) Severity() string {
	current, err := semver.NewVersion(e.Current)
	if err != nil {
		return "unknown"
	}
	latest, err := semver.NewVersion(e.Latest)
	if err != nil {
		return "unknown"
	}
	switch {
	case latest.Major() > current.Major():
		return "major"
	case latest.Minor() > current.Minor():
		return "minor"
	case latest.GreaterThan(current):
		return "patch"
	default:
		return "none"
	}
}

// Advisory carries the severity metadata for one vulnerable package.
type Advisory struct {
	Severity string `json:"severity"`
	Range    string `json:"range"`
}

// AuditReport summarizes npm audit findings by severity.
type AuditReport struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	Total    int `json:"total"`

	Advisories map[string]Advisory `json:"advisories"`
}

// QueryError reports a failed read query. Callers degrade to an empty result
// rather than aborting.
type QueryError struct {
	Command string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("registry query %q failed: %v", e.Command, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Client invokes npm through a CommandRunner.
type Client struct {
	Runner runner.CommandRunner
	Logger *log.Logger
}

func (c *Client) debug(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, args...)
	}
}

// Outdated returns the outdated packages reported by `npm outdated --json`,
// with depdoctor's own rendering dependency removed. A run or parse failure
// returns an empty map alongside a QueryError.
func (c *Client) Outdated(ctx context.Context) (map[string]OutdatedEntry, error) {
	c.debug("querying outdated packages", "command", "npm outdated --json")

	empty := map[string]OutdatedEntry{}

	res, err := c.Runner.Run(ctx, "npm", "outdated", "--json")
	if err != nil {
		return empty, &QueryError{Command: "npm outdated", Err: err}
	}
	if len(res.Stdout) == 0 {
		// Nothing outdated: npm prints no JSON at all on some versions.
		return empty, nil
	}

	if summary, found := npmErrorSummary(res.Stdout); found {
		return empty, &QueryError{Command: "npm outdated", Err: fmt.Errorf("npm reported: %s", summary)}
	}

	// Exit code 1 with JSON on stdout is the normal "outdated packages
	// exist" case. Parse first; the exit code is irrelevant.
	entries := map[string]OutdatedEntry{}
	if err := json.Unmarshal(res.Stdout, &entries); err != nil {
		return empty, &QueryError{Command: "npm outdated", Err: fmt.Errorf("failed to parse output: %w", err)}
	}

	delete(entries, selfRenderingDep)

	return entries, nil
}

// auditOutput matches the npm v7+ audit JSON shape.
type auditOutput struct {
	Vulnerabilities map[string]struct {
		Severity string `json:"severity"`
		Range    string `json:"range"`
	} `json:"vulnerabilities"`
	Metadata struct {
		Vulnerabilities struct {
			Info     int `json:"info"`
			Low      int `json:"low"`
			Moderate int `json:"moderate"`
			High     int `json:"high"`
			Critical int `json:"critical"`
			Total    int `json:"total"`
		} `json:"vulnerabilities"`
	} `json:"metadata"`
}

// Audit returns the security advisory report from `npm audit --json`. Same
// parse-first policy as Outdated: npm audit exits non-zero whenever
// vulnerabilities exist.
func (c *Client) Audit(ctx context.Context) (*AuditReport, error) {
	c.debug("querying security advisories", "command", "npm audit --json")

	empty := &AuditReport{Advisories: map[string]Advisory{}}

	res, err := c.Runner.Run(ctx, "npm", "audit", "--json")
	if err != nil {
		return empty, &QueryError{Command: "npm audit", Err: err}
	}
	if len(res.Stdout) == 0 {
		return empty, &QueryError{Command: "npm audit", Err: fmt.Errorf("no output")}
	}

	if summary, found := npmErrorSummary(res.Stdout); found {
		return empty, &QueryError{Command: "npm audit", Err: fmt.Errorf("npm reported: %s", summary)}
	}

	var out auditOutput
	if err := json.Unmarshal(res.Stdout, &out); err != nil {
		return empty, &QueryError{Command: "npm audit", Err: fmt.Errorf("failed to parse output: %w", err)}
	}

	report := &AuditReport{
		Critical:   out.Metadata.Vulnerabilities.Critical,
		High:       out.Metadata.Vulnerabilities.High,
		Moderate:   out.Metadata.Vulnerabilities.Moderate,
		Low:        out.Metadata.Vulnerabilities.Low,
		Info:       out.Metadata.Vulnerabilities.Info,
		Total:      out.Metadata.Vulnerabilities.Total,
		Advisories: map[string]Advisory{},
	}
	for name, v := range out.Vulnerabilities {
		report.Advisories[name] = Advisory{Severity: v.Severity, Range: v.Range}
	}

	return report, nil
}

// npmErrorSummary detects npm's {"error": {...}} JSON failure shape.
func npmErrorSummary(stdout []byte) (string, bool) {
	var probe struct {
		Error *struct {
			Code    string `json:"code"`
			Summary string `json:"summary"`
		} `json:"error"`
	}
	if err := json.Unmarshal(stdout, &probe); err != nil || probe.Error == nil {
		return "", false
	}
	if probe.Error.Summary != "" {
		return probe.Error.Summary, true
	}
	return probe.Error.Code, true
}

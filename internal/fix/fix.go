// Package fix executes remediation actions for the requested issue
// categories: uninstall unused, update outdated, patch vulnerabilities,
// dedupe duplicates. Categories run independently; one failure never
// prevents attempting the others.
package fix

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

// DefaultBatchSize bounds how many packages a single uninstall invocation
// carries, keeping the command line short.
const DefaultBatchSize = 10

// PackageManager is the write side of the registry adapter.
type PackageManager interface {
	Uninstall(ctx context.Context, names ...string) error
	UpdateAll(ctx context.Context) error
	AuditFix(ctx context.Context) error
	Dedupe(ctx context.Context) error
}

// UsageScanner recomputes the usage report before removal so the fix acts
// on fresh data.
type UsageScanner interface {
	Scan(ctx context.Context, dir string, protected *manifest.ProtectedSet) (*usage.Report, error)
}

// Selection names the categories to remediate.
type Selection struct {
	Unused          bool
	Outdated        bool
	Vulnerabilities bool
	Duplicates      bool

	// All selects every category.
	All bool

	// Force prints an extra warning but never bypasses the protection
	// veto: protected packages are not removed regardless.
	Force bool
}

// Any reports whether at least one category is selected.
func (s Selection) Any() bool {
	return s.All || s.Unused || s.Outdated || s.Vulnerabilities || s.Duplicates
}

// Result records one category's outcome. Err is nil on success.
type Result struct {
	Category string
	Err      error
}

// ActionError scopes a remediation failure to its category.
type ActionError struct {
	Category string
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("fix %s failed: %v", e.Category, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Orchestrator runs the selected remediation actions.
type Orchestrator struct {
	Dir       string
	Usage     UsageScanner
	Manager   PackageManager
	Protected *manifest.ProtectedSet
	Logger    *log.Logger

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int
}

// Apply runs each selected category in fixed order (unused, outdated,
// vulnerabilities, duplicates) and collects per-category results. A
// category failure is recorded, never propagated to siblings.
func (o *Orchestrator) Apply(ctx context.Context, sel Selection) []Result {
	var results []Result

	run := func(category string, selected bool, action func(context.Context) error) {
		if !sel.All && !selected {
			return
		}
		err := action(ctx)
		if err != nil {
			err = &ActionError{Category: category, Err: err}
		}
		results = append(results, Result{Category: category, Err: err})
	}

	run("unused", sel.Unused, o.fixUnused)
	run("outdated", sel.Outdated, o.Manager.UpdateAll)
	run("vulnerabilities", sel.Vulnerabilities, o.Manager.AuditFix)
	run("duplicates", sel.Duplicates, o.Manager.Dedupe)

	return results
}

// fixUnused recomputes the usage report and uninstalls the removable unused
// packages in batches. A batch failure aborts the remaining batches;
// completed batches are not rolled back.
func (o *Orchestrator) fixUnused(ctx context.Context) error {
	report, err := o.Usage.Scan(ctx, o.Dir, o.Protected)
	if err != nil {
		return err
	}

	combined := report.Combined()
	if len(combined) == 0 {
		if n := len(report.ProtectedUnused); n > 0 && o.Logger != nil {
			o.Logger.Info("nothing to remove", "protected_unused", n)
		}
		return nil
	}

	if n := len(report.ProtectedUnused); n > 0 && o.Logger != nil {
		o.Logger.Info("protected packages left untouched", "count", n)
	}

	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(combined); start += batchSize {
		end := start + batchSize
		if end > len(combined) {
			end = len(combined)
		}
		batch := combined[start:end]

		if o.Logger != nil {
			o.Logger.Debug("uninstalling batch", "packages", len(batch))
		}
		if err := o.Manager.Uninstall(ctx, batch...); err != nil {
			return fmt.Errorf("uninstall batch of %d failed: %w", len(batch), err)
		}
	}

	return nil
}

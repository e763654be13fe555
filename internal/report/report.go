// Package report aggregates the read-side queries into one snapshot: usage
// scan, outdated packages, security audit, and lockfile duplicates.
//
// The four queries are mutually independent and share no mutable state, so
// they run concurrently. Manifest load and usage-scan failures abort the
// command (a report without its subject is meaningless); outdated and audit
// failures degrade to empty results with a logged warning; a missing
// lockfile is informational while a malformed one is fatal.
package report

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/lockfile"
	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/registry"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

// UsageScanner is the read side of the usage adapter.
type UsageScanner interface {
	Scan(ctx context.Context, dir string, protected *manifest.ProtectedSet) (*usage.Report, error)
}

// RegistryQuerier is the read side of the registry adapter.
type RegistryQuerier interface {
	Outdated(ctx context.Context) (map[string]registry.OutdatedEntry, error)
	Audit(ctx context.Context) (*registry.AuditReport, error)
}

// Report is the assembled read-side snapshot for one invocation.
type Report struct {
	Manifest   *manifest.Manifest
	Usage      *usage.Report
	Outdated   map[string]registry.OutdatedEntry
	Audit      *registry.AuditReport
	Duplicates *lockfile.Report

	// Degraded names the queries that failed and fell back to empty
	// results, so renderers can label the report as partial.
	Degraded []string
}

// HealthInput converts the snapshot into score-engine counts.
func (r *Report) HealthInput() health.Input {
	return health.Input{
		Unused:          r.Usage.UnusedCount(),
		Outdated:        len(r.Outdated),
		Vulnerabilities: r.Audit.Total,
		Duplicates:      len(r.Duplicates.Duplicates),
		Missing:         len(r.Usage.Missing),
	}
}

// Collector wires the adapters needed to assemble a Report.
type Collector struct {
	Dir      string
	Usage    UsageScanner
	Registry RegistryQuerier
	Logger   *log.Logger
}

// Collect loads the manifest, then issues the four read queries
// concurrently and assembles the snapshot.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	m, err := manifest.Load(c.Dir)
	if err != nil {
		return nil, err
	}

	protected := manifest.NewProtectedSet(m.Protected...)

	var (
		wg sync.WaitGroup

		usageReport *usage.Report
		usageErr    error

		outdated    map[string]registry.OutdatedEntry
		outdatedErr error

		audit    *registry.AuditReport
		auditErr error

		duplicates *lockfile.Report
		dupErr     error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		usageReport, usageErr = c.Usage.Scan(ctx, c.Dir, protected)
	}()
	go func() {
		defer wg.Done()
		outdated, outdatedErr = c.Registry.Outdated(ctx)
	}()
	go func() {
		defer wg.Done()
		audit, auditErr = c.Registry.Audit(ctx)
	}()
	go func() {
		defer wg.Done()
		duplicates, dupErr = lockfile.FindDuplicates(filepath.Join(c.Dir, lockfile.FileName))
	}()
	wg.Wait()

	if usageErr != nil {
		return nil, usageErr
	}
	if dupErr != nil {
		return nil, dupErr
	}

	r := &Report{
		Manifest:   m,
		Usage:      usageReport,
		Outdated:   outdated,
		Audit:      audit,
		Duplicates: duplicates,
	}

	if outdatedErr != nil {
		c.warn("outdated query degraded to empty result", outdatedErr)
		r.Degraded = append(r.Degraded, "outdated")
	}
	if auditErr != nil {
		c.warn("security audit degraded to empty result", auditErr)
		r.Degraded = append(r.Degraded, "vulnerabilities")
	}

	return r, nil
}

func (c *Collector) warn(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "err", err)
	}
}

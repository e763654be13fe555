package fix

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

type fakeUsage struct {
	report *usage.Report
	err    error
}

func (f *fakeUsage) Scan(ctx context.Context, dir string, protected *manifest.ProtectedSet) (*usage.Report, error) {
	return f.report, f.err
}

// fakeManager records calls and fails scripted batches.
type fakeManager struct {
	uninstallBatches [][]string
	failOnBatch      int // 1-based; 0 means never fail
	updateErr        error
	auditFixErr      error
	dedupeErr        error
	updateCalls      int
	auditFixCalls    int
	dedupeCalls      int
}

func (f *fakeManager) Uninstall(ctx context.Context, names ...string) error {
	f.uninstallBatches = append(f.uninstallBatches, names)
	if f.failOnBatch > 0 && len(f.uninstallBatches) == f.failOnBatch {
		return errors.New("npm uninstall exited 1")
	}
	return nil
}

func (f *fakeManager) UpdateAll(ctx context.Context) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeManager) AuditFix(ctx context.Context) error {
	f.auditFixCalls++
	return f.auditFixErr
}

func (f *fakeManager) Dedupe(ctx context.Context) error {
	f.dedupeCalls++
	return f.dedupeErr
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("pkg-%02d", i)
	}
	return out
}

func newOrchestrator(u *fakeUsage, m *fakeManager) *Orchestrator {
	return &Orchestrator{
		Dir:       ".",
		Usage:     u,
		Manager:   m,
		Protected: manifest.NewProtectedSet(),
	}
}

func TestApply_UnusedBatching(t *testing.T) {
	// 23 unused packages with batch size 10 produce exactly 3 invocations
	// of sizes 10, 10, 3.
	u := &fakeUsage{report: &usage.Report{UnusedProduction: names(23)}}
	m := &fakeManager{}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{Unused: true})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	require.Len(t, m.uninstallBatches, 3)
	assert.Len(t, m.uninstallBatches[0], 10)
	assert.Len(t, m.uninstallBatches[1], 10)
	assert.Len(t, m.uninstallBatches[2], 3)
}

func TestApply_BatchFailureAbortsRemainingBatches(t *testing.T) {
	u := &fakeUsage{report: &usage.Report{UnusedProduction: names(23)}}
	m := &fakeManager{failOnBatch: 2}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{Unused: true})

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "npm uninstall exited 1")

	// First batch ran (not rolled back), second failed, third never attempted.
	assert.Len(t, m.uninstallBatches, 2)

	var actionErr *ActionError
	require.ErrorAs(t, results[0].Err, &actionErr)
	assert.Equal(t, "unused", actionErr.Category)
}

func TestApply_NoUnusedIsNoOp(t *testing.T) {
	u := &fakeUsage{report: &usage.Report{ProtectedUnused: []string{"webpack"}}}
	m := &fakeManager{}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{Unused: true})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Empty(t, m.uninstallBatches)
}

func TestApply_ForceNeverRemovesProtected(t *testing.T) {
	// The scanner already excludes protected packages from the removable
	// lists; --force must not change what gets uninstalled.
	u := &fakeUsage{report: &usage.Report{
		UnusedProduction: []string{"lodash"},
		ProtectedUnused:  []string{"webpack"},
	}}
	m := &fakeManager{}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{Unused: true, Force: true})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	require.Len(t, m.uninstallBatches, 1)
	assert.Equal(t, []string{"lodash"}, m.uninstallBatches[0])
}

func TestApply_AllSelectsEveryCategory(t *testing.T) {
	u := &fakeUsage{report: &usage.Report{}}
	m := &fakeManager{}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{All: true})

	require.Len(t, results, 4)
	categories := []string{results[0].Category, results[1].Category, results[2].Category, results[3].Category}
	assert.Equal(t, []string{"unused", "outdated", "vulnerabilities", "duplicates"}, categories)
	assert.Equal(t, 1, m.updateCalls)
	assert.Equal(t, 1, m.auditFixCalls)
	assert.Equal(t, 1, m.dedupeCalls)
}

func TestApply_CategoryFailureDoesNotStopSiblings(t *testing.T) {
	u := &fakeUsage{report: &usage.Report{}}
	m := &fakeManager{updateErr: errors.New("registry unreachable")}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{All: true})

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.NoError(t, results[3].Err)
	assert.Equal(t, 1, m.auditFixCalls)
	assert.Equal(t, 1, m.dedupeCalls)
}

func TestApply_ScanFailureFailsUnusedCategoryOnly(t *testing.T) {
	u := &fakeUsage{err: &usage.ScanError{Err: errors.New("depcheck crashed")}}
	m := &fakeManager{}

	results := newOrchestrator(u, m).Apply(context.Background(), Selection{All: true})

	require.Len(t, results, 4)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestSelection_Any(t *testing.T) {
	assert.False(t, Selection{}.Any())
	assert.False(t, Selection{Force: true}.Any())
	assert.True(t, Selection{Unused: true}.Any())
	assert.True(t, Selection{All: true}.Any())
}

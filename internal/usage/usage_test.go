package usage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/runner"
)

// fakeRunner scripts the analyzer's output without invoking npx.
type fakeRunner struct {
	result *runner.Result
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*runner.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.result, f.err
}

func TestScan_PartitionsUnusedAgainstProtection(t *testing.T) {
	// depcheck exits 255 when it finds issues; output must still be parsed.
	fake := &fakeRunner{result: &runner.Result{
		ExitCode: 255,
		Stdout: []byte(`{
			"dependencies": ["lodash", "webpack", "@types/node"],
			"devDependencies": ["moment", "eslint-plugin-react"],
			"missing": {"left-pad": ["src/index.js"]}
		}`),
	}}

	s := &Scanner{Runner: fake}
	report, err := s.Scan(context.Background(), t.TempDir(), manifest.NewProtectedSet())
	require.NoError(t, err)

	assert.Equal(t, []string{"lodash"}, report.UnusedProduction)
	assert.Equal(t, []string{"moment"}, report.UnusedDev)
	assert.ElementsMatch(t, []string{"webpack", "@types/node", "eslint-plugin-react"}, report.ProtectedUnused)
	assert.Equal(t, []string{"src/index.js"}, report.Missing["left-pad"])
	assert.Equal(t, 2, report.UnusedCount())
	assert.Equal(t, []string{"lodash", "moment"}, report.Combined())
}

func TestScan_ProtectedPackageNeverRemovable(t *testing.T) {
	// A package both flagged unused and present in the user-declared
	// protected set appears only in ProtectedUnused.
	fake := &fakeRunner{result: &runner.Result{
		Stdout: []byte(`{"dependencies": ["my-theme"], "devDependencies": [], "missing": {}}`),
	}}

	s := &Scanner{Runner: fake}
	report, err := s.Scan(context.Background(), t.TempDir(), manifest.NewProtectedSet("my-theme"))
	require.NoError(t, err)

	assert.Empty(t, report.UnusedProduction)
	assert.Equal(t, []string{"my-theme"}, report.ProtectedUnused)
}

func TestScan_DevServerConfigRescuesPackage(t *testing.T) {
	dir := t.TempDir()
	config := `import { somePlugin } from "rocket-dev-middleware"
export default { plugins: [somePlugin()] }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vite.config.ts"), []byte(config), 0644))

	fake := &fakeRunner{result: &runner.Result{
		Stdout: []byte(`{"dependencies": [], "devDependencies": ["rocket-dev-middleware", "moment"], "missing": {}}`),
	}}

	s := &Scanner{Runner: fake}
	report, err := s.Scan(context.Background(), dir, manifest.NewProtectedSet())
	require.NoError(t, err)

	// rocket-dev-middleware is referenced by the dev-server config, so it
	// is neither unused nor protected-unused.
	assert.Equal(t, []string{"moment"}, report.UnusedDev)
	assert.Empty(t, report.ProtectedUnused)
}

func TestScan_DynamicUsageAdvisory(t *testing.T) {
	fake := &fakeRunner{result: &runner.Result{
		Stdout: []byte(`{"dependencies": ["animate.css", "lodash"], "devDependencies": [], "missing": {}}`),
	}}

	s := &Scanner{Runner: fake}
	report, err := s.Scan(context.Background(), t.TempDir(), manifest.NewProtectedSet())
	require.NoError(t, err)

	// The advisory is a warning only: animate.css stays in the removable list.
	assert.Equal(t, []string{"animate.css", "lodash"}, report.UnusedProduction)
	require.Len(t, report.Advisories, 1)
	assert.Contains(t, report.Advisories[0], "animate.css")
}

func TestScan_RunnerFailureIsScanError(t *testing.T) {
	fake := &fakeRunner{err: errors.New("npx not found")}

	s := &Scanner{Runner: fake}
	_, err := s.Scan(context.Background(), t.TempDir(), manifest.NewProtectedSet())
	require.Error(t, err)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestScan_UnparseableOutputIsScanError(t *testing.T) {
	fake := &fakeRunner{result: &runner.Result{Stdout: []byte("npx: command failed")}}

	s := &Scanner{Runner: fake}
	_, err := s.Scan(context.Background(), t.TempDir(), manifest.NewProtectedSet())
	require.Error(t, err)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestDynamicUsageLikely(t *testing.T) {
	assert.True(t, DynamicUsageLikely("copy-webpack-plugin"))
	assert.True(t, DynamicUsageLikely("file-loader"))
	assert.True(t, DynamicUsageLikely("animate.css"))
	assert.False(t, DynamicUsageLikely("lodash"))
	assert.False(t, DynamicUsageLikely("express"))
}

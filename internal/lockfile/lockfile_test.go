package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLockfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindDuplicates_MissingLockfileIsNotAnError(t *testing.T) {
	report, err := FindDuplicates(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.False(t, report.LockfileExists)
	assert.Empty(t, report.Duplicates)
	assert.Zero(t, report.TotalPackages)
}

func TestFindDuplicates_MalformedLockfileIsParseError(t *testing.T) {
	path := writeLockfile(t, `{"packages": {`)

	_, err := FindDuplicates(path)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestFindDuplicates_SameVersionTwiceIsNotADuplicate(t *testing.T) {
	// lodash at two tree positions, both resolving to 4.17.20.
	path := writeLockfile(t, `{
		"lockfileVersion": 3,
		"packages": {
			"": {"name": "my-app"},
			"node_modules/lodash": {"version": "4.17.20"},
			"node_modules/foo": {"version": "1.0.0"},
			"node_modules/foo/node_modules/lodash": {"version": "4.17.20"}
		}
	}`)

	report, err := FindDuplicates(path)
	require.NoError(t, err)

	assert.True(t, report.LockfileExists)
	assert.Empty(t, report.Duplicates)
	assert.Equal(t, 3, report.TotalPackages)
}

func TestFindDuplicates_DistinctVersionsReported(t *testing.T) {
	// A third lodash position resolving to 4.17.21 makes it a duplicate.
	path := writeLockfile(t, `{
		"lockfileVersion": 3,
		"packages": {
			"": {"name": "my-app"},
			"node_modules/bar/node_modules/lodash": {"version": "4.17.21"},
			"node_modules/foo/node_modules/lodash": {"version": "4.17.20"},
			"node_modules/foo": {"version": "1.0.0"},
			"node_modules/lodash": {"version": "4.17.20"}
		}
	}`)

	report, err := FindDuplicates(path)
	require.NoError(t, err)

	require.Len(t, report.Duplicates, 1)
	dup := report.Duplicates[0]
	assert.Equal(t, "lodash", dup.Name)
	assert.Equal(t, []string{"4.17.21", "4.17.20"}, dup.Versions)
	assert.Equal(t, 2, dup.Count)
	assert.Equal(t, 4, report.TotalPackages)
}

func TestFindDuplicates_ScopedPackageNames(t *testing.T) {
	path := writeLockfile(t, `{
		"lockfileVersion": 3,
		"packages": {
			"node_modules/@babel/core": {"version": "7.23.0"},
			"node_modules/x/node_modules/@babel/core": {"version": "7.22.0"}
		}
	}`)

	report, err := FindDuplicates(path)
	require.NoError(t, err)

	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "@babel/core", report.Duplicates[0].Name)
}

func TestFindDuplicates_LegacyNestedShape(t *testing.T) {
	path := writeLockfile(t, `{
		"lockfileVersion": 1,
		"dependencies": {
			"foo": {
				"version": "1.0.0",
				"dependencies": {
					"lodash": {"version": "4.17.20"}
				}
			},
			"lodash": {"version": "4.17.21"}
		}
	}`)

	report, err := FindDuplicates(path)
	require.NoError(t, err)

	require.Len(t, report.Duplicates, 1)
	dup := report.Duplicates[0]
	assert.Equal(t, "lodash", dup.Name)
	// foo's subtree is visited before the top-level lodash sibling.
	assert.Equal(t, []string{"4.17.20", "4.17.21"}, dup.Versions)
	assert.Equal(t, 3, report.TotalPackages)
}

func TestFindDuplicates_Idempotent(t *testing.T) {
	path := writeLockfile(t, `{
		"lockfileVersion": 3,
		"packages": {
			"node_modules/a": {"version": "1.0.0"},
			"node_modules/b": {"version": "2.0.0"},
			"node_modules/b/node_modules/a": {"version": "1.1.0"},
			"node_modules/c/node_modules/a": {"version": "1.2.0"}
		}
	}`)

	first, err := FindDuplicates(path)
	require.NoError(t, err)
	second, err := FindDuplicates(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.TotalPackages, second.TotalPackages)
	require.Len(t, first.Duplicates, 1)
	assert.Equal(t, 3, first.Duplicates[0].Count)
}

func TestFindDuplicates_NodesWithoutVersionSkipped(t *testing.T) {
	path := writeLockfile(t, `{
		"lockfileVersion": 3,
		"packages": {
			"": {"name": "root"},
			"node_modules/linked": {},
			"node_modules/real": {"version": "1.0.0"}
		}
	}`)

	report, err := FindDuplicates(path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalPackages)
}

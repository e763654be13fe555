package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Success(t *testing.T) {
	r := &ExecRunner{}

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	r := &ExecRunner{}

	res, err := r.Run(context.Background(), "sh", "-c", "echo partial; exit 3")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\n", string(res.Stdout))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{}

	_, err := r.Run(context.Background(), "depdoctor-no-such-binary")
	require.Error(t, err)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := &ExecRunner{Timeout: 50 * time.Millisecond}

	_, err := r.Run(context.Background(), "sleep", "5")
	require.Error(t, err)

	var tErr *TimeoutError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Error(), "timed out")
}

func TestExecRunner_Dir(t *testing.T) {
	dir := t.TempDir()
	r := &ExecRunner{Dir: dir}

	res, err := r.Run(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), dir)
}

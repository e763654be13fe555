// Package runner executes external commands with a bounded timeout.
//
// Package-manager commands routinely exit non-zero while still printing
// useful structured output (npm outdated exits 1 when outdated packages
// exist). A non-zero exit is therefore returned as a Result, not an error;
// callers decide whether the exit code matters. Only a failure to start the
// process, or hitting the timeout, yields an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single external command invocation.
const DefaultTimeout = 30 * time.Second

// Result captures the outcome of one command invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner runs an external command and returns its captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// TimeoutError reports a command that exceeded its deadline.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

// ExecRunner runs commands via os/exec in a fixed working directory.
type ExecRunner struct {
	// Dir is the working directory for every command. Empty means the
	// process's current directory.
	Dir string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run executes name with args and captures stdout/stderr separately.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &TimeoutError{
			Command: strings.Join(append([]string{name}, args...), " "),
			Timeout: timeout,
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
			}, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return &Result{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

package app

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/humboldt-labs/depdoctor/internal/registry"
	"github.com/humboldt-labs/depdoctor/internal/report"
	"github.com/humboldt-labs/depdoctor/internal/runner"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

// newLogger creates the command logger. Debug level when --verbose is set;
// output goes to stderr so piped report output stays clean.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newRunner builds the command runner rooted at the project directory.
func newRunner() *runner.ExecRunner {
	return &runner.ExecRunner{
		Dir:     flagDir,
		Timeout: flagTimeout,
	}
}

// newCollector wires the read-side adapters for the report commands.
func newCollector(logger *log.Logger) *report.Collector {
	r := newRunner()
	return &report.Collector{
		Dir:      flagDir,
		Usage:    &usage.Scanner{Runner: r, Logger: logger},
		Registry: &registry.Client{Runner: r, Logger: logger},
		Logger:   logger,
	}
}

// collect assembles the full report for the current project directory.
func collect(ctx context.Context, logger *log.Logger) (*report.Report, error) {
	return newCollector(logger).Collect(ctx)
}

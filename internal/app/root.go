// Package app implements the depdoctor command-line interface.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagDir     string
	flagTimeout time.Duration
	flagVerbose bool
	flagDBPath  string

	// RootCmd is the root command for depdoctor
	RootCmd = &cobra.Command{
		Use:   "depdoctor",
		Short: "Dependency health checks for npm projects",
		Long: `depdoctor inspects an npm project and reports the state of its declared
dependencies: unused, missing, outdated, duplicated, and vulnerable packages,
summarized as a 0-100 health score.

All findings come from the project's own package.json and package-lock.json
plus the npm and depcheck tools; depdoctor never modifies the project unless
you run 'depdoctor fix'.

Protected packages (build tools, framework cores, anything listed under the
"depdoctor" > "protected" key in package.json) are reported but never removed,
even with --force.

Examples:
  # Full report with health score
  depdoctor summary

  # Machine-readable report
  depdoctor summary --json

  # Remove unused dependencies
  depdoctor fix --unused

  # Fix everything fixable
  depdoctor fix --all --yes

  # Re-run the report on every manifest change
  depdoctor watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("depdoctor: dependency health checks for npm projects")
			fmt.Println()
			fmt.Println("Run 'depdoctor summary' for a full report.")
			fmt.Println("Run 'depdoctor --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "project directory containing package.json")
	RootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-command timeout for npm/depcheck invocations (default 30s)")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	RootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "history database path (default: ~/.depdoctor/depdoctor.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the history database path, using the flag value or default
func getDBPath() (string, error) {
	if flagDBPath != "" {
		return flagDBPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	depdoctorDir := filepath.Join(home, ".depdoctor")
	if err := os.MkdirAll(depdoctorDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create depdoctor directory: %w", err)
	}

	return filepath.Join(depdoctorDir, "depdoctor.db"), nil
}

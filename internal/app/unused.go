package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

var unusedCmd = &cobra.Command{
	Use:   "unused",
	Short: "List unused dependencies",
	Long: `Scan the project source tree with depcheck and list declared dependencies
that nothing imports.

Packages referenced only from dev-server config files (vite.config.*,
webpack.dev.*, server.config.*) count as used. Protected packages that appear
unused are listed separately and are never candidates for removal.`,
	Example: `  depdoctor unused

  # Then remove them
  depdoctor fix --unused`,
	RunE: runUnusedCmd,
}

func init() {
	RootCmd.AddCommand(unusedCmd)
}

func runUnusedCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	m, err := manifest.Load(flagDir)
	if err != nil {
		return err
	}
	protected := manifest.NewProtectedSet(m.Protected...)

	scanner := &usage.Scanner{Runner: newRunner(), Logger: logger}
	report, err := scanner.Scan(cmd.Context(), flagDir, protected)
	if err != nil {
		return err
	}

	if report.UnusedCount() == 0 && len(report.ProtectedUnused) == 0 {
		fmt.Println("✓ No unused dependencies.")
		return nil
	}

	if report.UnusedCount() > 0 {
		fmt.Printf("Unused dependencies (%d):\n", report.UnusedCount())
		for _, name := range report.UnusedProduction {
			fmt.Println("  - " + name)
		}
		for _, name := range report.UnusedDev {
			fmt.Println("  - " + name + " (dev)")
		}
	}

	if len(report.ProtectedUnused) > 0 {
		fmt.Printf("\nUnused but protected (kept, %d):\n", len(report.ProtectedUnused))
		for _, name := range report.ProtectedUnused {
			fmt.Println("  - " + name)
		}
	}

	for _, advisory := range report.Advisories {
		fmt.Println("\n⚠ " + advisory)
	}

	if report.UnusedCount() > 0 {
		fmt.Println("\nRemove with: depdoctor fix --unused")
	}

	return nil
}

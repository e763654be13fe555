package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/fix"
	"github.com/humboldt-labs/depdoctor/internal/manifest"
	"github.com/humboldt-labs/depdoctor/internal/registry"
	"github.com/humboldt-labs/depdoctor/internal/usage"
)

var (
	fixFlagUnused          bool
	fixFlagOutdated        bool
	fixFlagVulnerabilities bool
	fixFlagDuplicates      bool
	fixFlagAll             bool
	fixFlagForce           bool
	fixFlagYes             bool
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply automated fixes for dependency issues",
	Long: `Apply automated fixes for the selected issue categories:

  --unused           npm uninstall the unused dependencies (batched)
  --outdated         npm update
  --vulnerabilities  npm audit fix
  --duplicates       npm dedupe
  --all              all of the above

Categories run in a fixed order (unused, outdated, vulnerabilities,
duplicates) and are isolated: a failure in one category is reported but never
prevents the others from running.

Without --yes the command is a dry run: it reports what would be applied and
makes no changes. Protected packages are never uninstalled; --force prints an
extra warning but does not override protection.

Run without flags to see this category list; no action is taken.`,
	Example: `  # Preview what would change (dry run)
  depdoctor fix --all

  # Remove unused dependencies
  depdoctor fix --unused --yes

  # Fix everything (CI)
  depdoctor fix --all --yes`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&fixFlagUnused, "unused", false, "Uninstall unused dependencies")
	fixCmd.Flags().BoolVar(&fixFlagOutdated, "outdated", false, "Update outdated packages")
	fixCmd.Flags().BoolVar(&fixFlagVulnerabilities, "vulnerabilities", false, "Apply security patches (npm audit fix)")
	fixCmd.Flags().BoolVar(&fixFlagDuplicates, "duplicates", false, "Dedupe the installed tree")
	fixCmd.Flags().BoolVar(&fixFlagAll, "all", false, "Apply every fix category")
	fixCmd.Flags().BoolVar(&fixFlagForce, "force", false, "Print a warning and proceed; protected packages are still kept")
	fixCmd.Flags().BoolVarP(&fixFlagYes, "yes", "y", false, "Actually apply the fixes (omitting this is a dry run)")

	RootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	sel := fix.Selection{
		Unused:          fixFlagUnused,
		Outdated:        fixFlagOutdated,
		Vulnerabilities: fixFlagVulnerabilities,
		Duplicates:      fixFlagDuplicates,
		All:             fixFlagAll,
		Force:           fixFlagForce,
	}

	if !sel.Any() {
		fmt.Println("No fix category selected. Choose at least one:")
		fmt.Println()
		fmt.Println("  --unused           remove unused dependencies")
		fmt.Println("  --outdated         update outdated packages")
		fmt.Println("  --vulnerabilities  apply security patches")
		fmt.Println("  --duplicates       dedupe the installed tree")
		fmt.Println("  --all              all of the above")
		fmt.Println()
		fmt.Println("Pass --yes along with a category to apply; without it nothing changes.")
		return nil
	}

	categories := selectedCategories(sel)

	if fixFlagForce {
		fmt.Println("⚠  --force does not override protection. Protected packages are never removed.")
		fmt.Println()
	}

	if !fixFlagYes {
		fmt.Printf("Dry run: would apply %s. No changes made.\n", strings.Join(categories, ", "))
		fmt.Println("Pass --yes to apply.")
		return nil
	}

	logger := newLogger()

	m, err := manifest.Load(flagDir)
	if err != nil {
		return err
	}
	protected := manifest.NewProtectedSet(m.Protected...)

	r := newRunner()
	orch := &fix.Orchestrator{
		Dir:       flagDir,
		Usage:     &usage.Scanner{Runner: r, Logger: logger},
		Manager:   &registry.Client{Runner: r, Logger: logger},
		Protected: protected,
		Logger:    logger,
	}

	results := orch.Apply(cmd.Context(), sel)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", res.Category, res.Err)
			continue
		}
		fmt.Printf("✓ %s fixed\n", res.Category)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d fix categories failed", failed, len(results))
	}

	fmt.Println("\nRun 'depdoctor summary' to see the updated report.")
	return nil
}

// selectedCategories lists the categories a Selection covers, in apply order.
func selectedCategories(sel fix.Selection) []string {
	if sel.All {
		return []string{"unused", "outdated", "vulnerabilities", "duplicates"}
	}
	var out []string
	if sel.Unused {
		out = append(out, "unused")
	}
	if sel.Outdated {
		out = append(out, "outdated")
	}
	if sel.Vulnerabilities {
		out = append(out, "vulnerabilities")
	}
	if sel.Duplicates {
		out = append(out, "duplicates")
	}
	return out
}


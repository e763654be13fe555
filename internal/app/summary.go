package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/output"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Full dependency health report with score",
	Long: `Run every read-side check (unused, missing, outdated, duplicated, and
vulnerable dependencies) and print the combined report with a health score.

The unused scan, outdated query, security audit, and lockfile duplicate scan
run concurrently. If the registry queries fail (offline, registry outage),
those sections show empty results and the report is labeled partial; the
other sections are still accurate.`,
	Example: `  # Human-readable report
  depdoctor summary

  # Machine-readable report for CI
  depdoctor summary --json

  # Report on a different project
  depdoctor summary --dir ../other-app`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Emit the report as JSON")

	RootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	r, err := collect(cmd.Context(), logger)
	if err != nil {
		return err
	}
	h := health.Score(r.HealthInput())

	if summaryJSON {
		data, err := output.MarshalReport(r, h)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(output.RenderSummary(r, h))
	return nil
}

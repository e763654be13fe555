package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/output"
	"github.com/humboldt-labs/depdoctor/internal/report"
	"github.com/humboldt-labs/depdoctor/internal/store"
)

var scoreNoRecord bool

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the dependency health score",
	Long: `Run all checks and print the 0-100 health score with its issue and
suggestion lists.

Scoring starts at 100 and deducts a capped penalty per issue category:
  - unused dependencies    3 points each, capped at 30
  - outdated packages      2 points each, capped at 25
  - vulnerabilities        5 points each, capped at 35
  - duplicated packages    2 points each, capped at 15
  - missing dependencies   4 points each, capped at 20

Each run is recorded in the local history database; see 'depdoctor history'.`,
	Example: `  depdoctor score

  # Score without recording history
  depdoctor score --no-record`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreNoRecord, "no-record", false, "Do not record this run in the history database")

	RootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	r, err := collect(cmd.Context(), logger)
	if err != nil {
		return err
	}
	h := health.Score(r.HealthInput())

	fmt.Print(output.RenderScore(h))

	if !scoreNoRecord {
		// History is best effort: a failed write never fails the command.
		if err := recordRun(r, h); err != nil {
			logger.Warn("failed to record run history", "err", err)
		}
	}

	return nil
}

// recordRun persists one score computation to the history database.
func recordRun(r *report.Report, h *health.Result) error {
	dbPath, err := getDBPath()
	if err != nil {
		return err
	}

	st, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	in := r.HealthInput()
	_, err = st.RecordRun(store.Run{
		Project:    r.Manifest.Name,
		Score:      h.Score,
		Unused:     in.Unused,
		Outdated:   in.Outdated,
		Vulnerable: in.Vulnerabilities,
		Duplicated: in.Duplicates,
		Missing:    in.Missing,
	})
	return err
}

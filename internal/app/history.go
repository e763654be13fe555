package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/output"
	"github.com/humboldt-labs/depdoctor/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past health score runs",
	Long: `List previously recorded score runs, newest first.

Runs are recorded by 'depdoctor score' (unless --no-record was given) and
stored in a local SQLite database shared across projects; each row names the
project it scored.`,
	Example: `  depdoctor history

  # Last 3 runs only
  depdoctor history --limit 3`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show (0 = all)")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, err := getDBPath()
	if err != nil {
		return err
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'depdoctor score' first.")
		return nil
	}

	fmt.Print(output.RenderHistory(runs))
	return nil
}

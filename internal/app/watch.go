package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/output"
	"github.com/humboldt-labs/depdoctor/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report on every manifest change",
	Long: `Watch package.json and package-lock.json for changes and re-run the full
report after each settled change.

Events are debounced so an npm install, which rewrites both files several
times, produces a single report. Stop with Ctrl-C.`,
	Example: `  depdoctor watch

  # Wait longer for installs to settle
  depdoctor watch --debounce 5s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before re-running after a change")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rerun := func(ctx context.Context) {
		r, err := collect(ctx, logger)
		if err != nil {
			logger.Error("report failed", "err", err)
			return
		}
		h := health.Score(r.HealthInput())
		fmt.Println()
		fmt.Print(output.RenderSummary(r, h))
	}

	// Initial report before settling into the watch loop.
	rerun(ctx)

	w := &watcher.Watcher{
		Dir:      flagDir,
		Debounce: watchDebounce,
		Logger:   logger,
		OnChange: rerun,
	}

	err := w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nStopped watching.")
		return nil
	}
	return err
}

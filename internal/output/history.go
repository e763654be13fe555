package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/humboldt-labs/depdoctor/internal/store"
)

// RenderHistory formats recorded score runs as a fixed-width table, newest
// first. Timestamps render as relative durations ("2 hours ago").
func RenderHistory(runs []store.Run) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %-24s %-10s %s\n",
		"When", "Project", "Score", "Issues (U/O/V/D/M)"))
	sb.WriteString(strings.Repeat("─", 72) + "\n")

	for _, run := range runs {
		// Pad before styling so ANSI codes do not skew the column width.
		score := fmt.Sprintf("%-10s", fmt.Sprintf("%d/100", run.Score))
		issues := fmt.Sprintf("%d/%d/%d/%d/%d",
			run.Unused, run.Outdated, run.Vulnerable, run.Duplicated, run.Missing)
		sb.WriteString(fmt.Sprintf("%-16s %-24s %s %s\n",
			humanize.Time(run.CreatedAt), truncate(run.Project, 24),
			colorize(bandStyle(run.Score), score), issues))
	}

	return sb.String()
}

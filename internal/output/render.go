// Package output renders depdoctor reports for the terminal.
//
// Tables are fixed-width ASCII; color is applied with lipgloss styles and
// only when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/humboldt-labs/depdoctor/internal/health"
	"github.com/humboldt-labs/depdoctor/internal/report"
)

var (
	styleGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	styleCaution = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	stylePoor    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ColorEnabled reports whether styled output should be emitted: stdout is a
// TTY and NO_COLOR is not set.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize applies style only when color is enabled.
func colorize(style lipgloss.Style, text string) string {
	if ColorEnabled() {
		return style.Render(text)
	}
	return text
}

// bandStyle maps a health band to its display style.
func bandStyle(score int) lipgloss.Style {
	switch health.Band(score) {
	case "good":
		return styleGood
	case "caution":
		return styleCaution
	default:
		return stylePoor
	}
}

// RenderScoreLine formats the score headline, color-banded by severity.
func RenderScoreLine(score int) string {
	label := fmt.Sprintf("Health score: %d/100 (%s)", score, health.Band(score))
	return colorize(bandStyle(score), label)
}

// RenderSummary renders the full human-readable report.
func RenderSummary(r *report.Report, h *health.Result) string {
	var sb strings.Builder

	name := r.Manifest.Name
	if name == "" {
		name = "(unnamed project)"
	}
	sb.WriteString(fmt.Sprintf("%s %s — %d dependencies declared\n",
		name, r.Manifest.Version, r.Manifest.DependencyCount()))
	sb.WriteString(RenderScoreLine(h.Score))
	sb.WriteString("\n\n")

	writeUnusedSection(&sb, r)
	writeOutdatedSection(&sb, r)
	writeVulnerabilitySection(&sb, r)
	writeDuplicateSection(&sb, r)
	writeMissingSection(&sb, r)

	if len(h.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		for _, s := range h.Suggestions {
			sb.WriteString("  • " + s + "\n")
		}
	}

	if len(r.Degraded) > 0 {
		sb.WriteString(colorize(styleWarn, fmt.Sprintf(
			"\n⚠  Partial report: %s could not be queried and show empty results.\n",
			strings.Join(r.Degraded, ", "))))
	}

	return sb.String()
}

func writeUnusedSection(sb *strings.Builder, r *report.Report) {
	u := r.Usage
	if u.UnusedCount() == 0 && len(u.ProtectedUnused) == 0 {
		sb.WriteString("✓ No unused dependencies\n\n")
		return
	}

	if u.UnusedCount() > 0 {
		sb.WriteString(fmt.Sprintf("Unused dependencies (%d):\n", u.UnusedCount()))
		for _, name := range u.UnusedProduction {
			sb.WriteString("  - " + name + "\n")
		}
		for _, name := range u.UnusedDev {
			sb.WriteString("  - " + name + " (dev)\n")
		}
	}
	if len(u.ProtectedUnused) > 0 {
		sb.WriteString(colorize(styleDim, fmt.Sprintf(
			"  %d unused but protected (kept): %s\n",
			len(u.ProtectedUnused), strings.Join(u.ProtectedUnused, ", "))))
	}
	for _, advisory := range u.Advisories {
		sb.WriteString(colorize(styleWarn, "  ⚠ "+advisory+"\n"))
	}
	sb.WriteString("\n")
}

func writeOutdatedSection(sb *strings.Builder, r *report.Report) {
	if len(r.Outdated) == 0 {
		sb.WriteString("✓ All packages up to date\n\n")
		return
	}

	names := make([]string, 0, len(r.Outdated))
	for name := range r.Outdated {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(fmt.Sprintf("Outdated packages (%d):\n", len(names)))
	sb.WriteString(fmt.Sprintf("  %-24s %-12s %-12s %-12s %s\n",
		"Package", "Current", "Wanted", "Latest", "Change"))
	sb.WriteString("  " + strings.Repeat("─", 70) + "\n")
	for _, name := range names {
		e := r.Outdated[name]
		sb.WriteString(fmt.Sprintf("  %-24s %-12s %-12s %-12s %s\n",
			truncate(name, 24), e.Current, e.Wanted, e.Latest, e.Severity()))
	}
	sb.WriteString("\n")
}

func writeVulnerabilitySection(sb *strings.Builder, r *report.Report) {
	a := r.Audit
	if a.Total == 0 {
		sb.WriteString("✓ No known vulnerabilities\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("Vulnerabilities (%d): %d critical, %d high, %d moderate, %d low\n",
		a.Total, a.Critical, a.High, a.Moderate, a.Low))

	names := make([]string, 0, len(a.Advisories))
	for name := range a.Advisories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		adv := a.Advisories[name]
		sb.WriteString(fmt.Sprintf("  - %s (%s) %s\n", name, adv.Severity, adv.Range))
	}
	sb.WriteString("\n")
}

func writeDuplicateSection(sb *strings.Builder, r *report.Report) {
	d := r.Duplicates
	if !d.LockfileExists {
		sb.WriteString("ℹ No lock file found — duplicate detection skipped\n\n")
		return
	}
	if len(d.Duplicates) == 0 {
		sb.WriteString(fmt.Sprintf("✓ No duplicated packages (%d packages in tree)\n\n", d.TotalPackages))
		return
	}

	sb.WriteString(fmt.Sprintf("Duplicated packages (%d of %d in tree):\n",
		len(d.Duplicates), d.TotalPackages))
	for _, dup := range d.Duplicates {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", dup.Name, strings.Join(dup.Versions, ", ")))
	}
	sb.WriteString("\n")
}

func writeMissingSection(sb *strings.Builder, r *report.Report) {
	missing := r.Usage.Missing
	if len(missing) == 0 {
		sb.WriteString("✓ No missing dependencies\n\n")
		return
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(fmt.Sprintf("Missing dependencies (%d):\n", len(names)))
	for _, name := range names {
		files := missing[name]
		shown := files
		if len(shown) > 3 {
			shown = shown[:3]
		}
		sb.WriteString(fmt.Sprintf("  - %s (used in %s)\n", name, strings.Join(shown, ", ")))
	}
	sb.WriteString("\n")
}

// RenderScore renders the score command output: headline plus issue and
// suggestion lists.
func RenderScore(h *health.Result) string {
	var sb strings.Builder

	sb.WriteString(RenderScoreLine(h.Score))
	sb.WriteString("\n")

	if len(h.Issues) == 0 {
		sb.WriteString("\nNo issues found.\n")
		return sb.String()
	}

	sb.WriteString("\nIssues:\n")
	for _, issue := range h.Issues {
		sb.WriteString("  ✗ " + issue + "\n")
	}
	sb.WriteString("\nSuggestions:\n")
	for _, s := range h.Suggestions {
		sb.WriteString("  • " + s + "\n")
	}

	return sb.String()
}

// truncate shortens a string to maxLen, adding "..." when cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

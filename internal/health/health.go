// Package health aggregates the issue categories into a single 0-100 score
// with category-capped penalties, plus human-readable issue and suggestion
// lists.
package health

import "fmt"

// Per-item penalty weights and per-category caps. Penalties are additive and
// independently capped, so evaluation order never changes the total. The
// caps sum to 125: a project with issues in every category saturates at 0.
const (
	unusedWeight = 3
	unusedCap    = 30

	outdatedWeight = 2
	outdatedCap    = 25

	vulnerableWeight = 5
	vulnerableCap    = 35

	duplicateWeight = 2
	duplicateCap    = 15

	missingWeight = 4
	missingCap    = 20
)

// Input carries the issue counts for one scoring run.
type Input struct {
	// Unused is the combined production + dev unused count.
	Unused          int
	Outdated        int
	Vulnerabilities int
	Duplicates      int
	Missing         int
}

// Result is the computed health score. Computed fresh per invocation, never
// persisted by the engine itself.
type Result struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Band classifies a score for display: "good" (>=85), "caution" (70-84),
// "poor" (<70).
func Band(score int) string {
	switch {
	case score >= 85:
		return "good"
	case score >= 70:
		return "caution"
	default:
		return "poor"
	}
}

// Score computes the deterministic health score: start at 100, deduct each
// category's capped penalty, floor at 0. For each non-empty category one
// issue string and one remediation suggestion are appended, in fixed order:
// unused, outdated, vulnerabilities, duplicates, missing.
func Score(in Input) *Result {
	res := &Result{
		Issues:      []string{},
		Suggestions: []string{},
	}

	total := 0
	total += penalty(in.Unused, unusedWeight, unusedCap)
	total += penalty(in.Outdated, outdatedWeight, outdatedCap)
	total += penalty(in.Vulnerabilities, vulnerableWeight, vulnerableCap)
	total += penalty(in.Duplicates, duplicateWeight, duplicateCap)
	total += penalty(in.Missing, missingWeight, missingCap)

	res.Score = 100 - total
	if res.Score < 0 {
		res.Score = 0
	}

	if in.Unused > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%d unused %s declared in the manifest", in.Unused, plural(in.Unused, "dependency", "dependencies")))
		res.Suggestions = append(res.Suggestions, "Run 'depdoctor fix --unused' to remove unused dependencies")
	}
	if in.Outdated > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%d outdated %s", in.Outdated, plural(in.Outdated, "package", "packages")))
		res.Suggestions = append(res.Suggestions, "Run 'depdoctor fix --outdated' to update them")
	}
	if in.Vulnerabilities > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%d known %s", in.Vulnerabilities, plural(in.Vulnerabilities, "vulnerability", "vulnerabilities")))
		res.Suggestions = append(res.Suggestions, "Run 'depdoctor fix --vulnerabilities' to apply security patches")
	}
	if in.Duplicates > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%d %s resolved to multiple versions", in.Duplicates, plural(in.Duplicates, "package", "packages")))
		res.Suggestions = append(res.Suggestions, "Run 'depdoctor fix --duplicates' to dedupe the tree")
	}
	if in.Missing > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%d %s imported but not declared", in.Missing, plural(in.Missing, "package", "packages")))
		res.Suggestions = append(res.Suggestions, "Run 'npm install <package>' to declare missing dependencies")
	}

	return res
}

func penalty(count, weight, limit int) int {
	p := count * weight
	if p > limit {
		return limit
	}
	return p
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

package provision

import (
	"regexp"
	"strings"
)

// Workflow listing rows are pipe-delimited; the first column carries the
// identifier. Header and separator rows must never be treated as ids.
var (
	workflowIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	separatorPattern  = regexp.MustCompile(`^-+$`)
)

var headerLabels = map[string]bool{
	"id":          true,
	"workflow id": true,
}

// ParseWorkflowIDs extracts the deduplicated workflow identifiers from the
// engine's tabular listing output. Lines that are empty, header labels,
// dash separators, or contain characters outside [A-Za-z0-9_-] are
// discarded. First-seen order is preserved.
func ParseWorkflowIDs(listing string) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(listing, "\n") {
		candidate := line
		if i := strings.Index(candidate, "|"); i >= 0 {
			candidate = candidate[:i]
		}
		candidate = strings.TrimSpace(candidate)

		if candidate == "" {
			continue
		}
		if headerLabels[strings.ToLower(candidate)] {
			continue
		}
		// Separator check must precede the character-set check: a row of
		// dashes is also a valid identifier string.
		if separatorPattern.MatchString(candidate) {
			continue
		}
		if !workflowIDPattern.MatchString(candidate) {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		ids = append(ids, candidate)
	}
	return ids
}

// ActivationSummary tallies the activation pass. Failures never stop the
// remaining ids from being attempted.
type ActivationSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

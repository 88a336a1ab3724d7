package diagnose

import (
	"sort"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

// nextPassHints maps a finding code to the pass that digs deeper into it.
var nextPassHints = map[string]string{
	"high-sigterm-rate":      "shutdown",
	"exit-code-137":          "shutdown",
	"exit-code-143":          "shutdown",
	"probe-shared-path":      "probes",
	"probe-missing":          "probes",
	"probe-failing":          "probes",
	"node-pressure":          "evictions",
	"missing-memory-request": "evictions",
	"cert-expires-soon":      "certs",
	"cert-expired":           "certs",
}

// SuggestPasses returns the passes worth running next given the findings of
// the current one, deduplicated and sorted. The current pass never suggests
// itself.
func SuggestPasses(current string, findings []model.Finding) []string {
	seen := make(map[string]bool)
	for _, f := range findings {
		if pass, ok := nextPassHints[f.Code]; ok && pass != current {
			seen[pass] = true
		}
	}

	suggestions := make([]string, 0, len(seen))
	for pass := range seen {
		suggestions = append(suggestions, pass)
	}
	sort.Strings(suggestions)
	return suggestions
}

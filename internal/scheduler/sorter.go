package scheduler

import (
	"sort"
)

// CanonicalSort orders candidates best-first by the deterministic rules:
// 1. Ready before blocked
// 2. Score: higher first
// 3. Backlog position: earlier first
func CanonicalSort(candidates []ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		// 1. Readiness
		if a.Blocked != b.Blocked {
			return !a.Blocked
		}

		// 2. Score (higher first)
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		// 3. Input order
		return a.Input.Index < b.Input.Index
	})
}

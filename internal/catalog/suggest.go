package catalog

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name by edit distance,
// or "" when nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	type scored struct {
		name string
		dist int
	}

	var hits []scored
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		hits = append(hits, scored{name: cand, dist: dist})
	}
	if len(hits) == 0 {
		return ""
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].name
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

package walkthrough

import (
	"sort"
	"strings"
)

// Delta is the file-level difference between two snapshots. The three lists
// are sorted and pairwise disjoint, and together hold every path of either
// snapshot.
type Delta struct {
	Same    []string
	Added   []string
	Removed []string
}

// Partition splits the tracked paths of an older and a newer snapshot.
func Partition(older, newer []string) Delta {
	inOlder := make(map[string]bool, len(older))
	for _, p := range older {
		inOlder[p] = true
	}
	inNewer := make(map[string]bool, len(newer))
	for _, p := range newer {
		inNewer[p] = true
	}

	var d Delta
	for p := range inNewer {
		if inOlder[p] {
			d.Same = append(d.Same, p)
		} else {
			d.Added = append(d.Added, p)
		}
	}
	for p := range inOlder {
		if !inNewer[p] {
			d.Removed = append(d.Removed, p)
		}
	}
	sort.Strings(d.Same)
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}

// isNarrative reports whether a tracked path is documentation rather than
// code: any readme, and any file carrying the narrative suffix.
func isNarrative(rel, suffix string) bool {
	lower := strings.ToLower(rel)
	if strings.HasSuffix(lower, "readme.md") {
		return true
	}
	return suffix != "" && strings.HasSuffix(lower, strings.ToLower(suffix))
}

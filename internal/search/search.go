// Package search provides fuzzy matching over group names for the
// session's list filter. Subsequence matching (with matched-rune positions
// for highlighting) runs first; when it yields nothing, a typo-tolerant
// edit-distance pass runs instead.
package search

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// Match is one matched name from a Filter call.
type Match struct {
	Index          int   // Index into the names passed to Filter
	Score          int   // Comparable only within a single call
	MatchedIndexes []int // Matched rune positions for highlighting; nil for typo-tier matches
}

// nameIndex implements sahilm/fuzzy.Source over pre-lowered names
type nameIndex []string

func (n nameIndex) String(i int) string { return n[i] }
func (n nameIndex) Len() int            { return len(n) }

// Filter returns the names matching query, best match first. An empty
// query matches nothing; callers treat that as "no filter active".
func Filter(query string, names []string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(names) == 0 {
		return nil
	}

	lower := make(nameIndex, len(names))
	for i, name := range names {
		lower[i] = strings.ToLower(name)
	}

	if matches := fuzzy.FindFrom(query, lower); len(matches) > 0 {
		results := make([]Match, len(matches))
		for i, m := range matches {
			results[i] = Match{Index: m.Index, Score: m.Score, MatchedIndexes: m.MatchedIndexes}
		}
		return results
	}

	return rankByDistance(query, lower)
}

// rankByDistance handles queries the subsequence matcher rejects outright,
// typically typos ("gneeral"). Distance is measured against the full name
// and each of its words; the typo budget scales with query length.
func rankByDistance(query string, lower nameIndex) []Match {
	budget := allowedTypos(len([]rune(query)))
	if budget == 0 {
		return nil
	}

	var results []Match
	for i, name := range lower {
		if d := bestDistance(query, name); d <= budget {
			results = append(results, Match{Index: i, Score: d})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	return results
}

func bestDistance(query, name string) int {
	best := lfuzzy.LevenshteinDistance(query, name)
	for _, word := range strings.Fields(name) {
		if d := lfuzzy.LevenshteinDistance(query, word); d < best {
			best = d
		}
	}
	return best
}

// allowedTypos returns the edit-distance budget for a query length:
// 1-3 chars = 0, 4-6 chars = 1, 7+ chars = 2.
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}

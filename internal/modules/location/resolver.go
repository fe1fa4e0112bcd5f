// README: Fuzzy location resolver; exact, substring, then token-overlap tiers ranked by trip volume.
package location

import (
	"strings"
	"unicode/utf8"

	"rideinsight/internal/modules/insights"
)

// MaxCandidates caps the resolver output.
const MaxCandidates = 5

// minTokenLen is the shortest word (exclusive) considered for token overlap.
const minTokenLen = 2

type tier func(name, fragment string, tokens []string) bool

var tiers = []tier{
	func(name, fragment string, _ []string) bool { return name == fragment },
	func(name, fragment string, _ []string) bool {
		return strings.Contains(name, fragment) || strings.Contains(fragment, name)
	},
	func(name, _ string, tokens []string) bool {
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				return true
			}
		}
		return false
	},
}

// Resolve returns up to MaxCandidates vocabulary entries for fragment. Tiers
// are tried in order and the first non-empty tier wins; within it candidates
// are ranked by count, descending, keeping vocabulary order on ties.
func Resolve(fragment string, vocab []insights.LocationCount) []insights.LocationCount {
	fragment = strings.ToLower(strings.Join(strings.Fields(fragment), " "))
	if fragment == "" {
		return nil
	}
	tokens := significantTokens(fragment)

	for _, match := range tiers {
		var found []insights.LocationCount
		for _, lc := range vocab {
			if match(strings.ToLower(lc.Name), fragment, tokens) {
				found = append(found, lc)
			}
		}
		if len(found) == 0 {
			continue
		}
		sortByCount(found, func(lc insights.LocationCount) int { return lc.Count })
		if len(found) > MaxCandidates {
			found = found[:MaxCandidates]
		}
		return found
	}
	return nil
}

func significantTokens(fragment string) []string {
	var out []string
	for _, w := range strings.Fields(fragment) {
		if utf8.RuneCountInString(w) > minTokenLen {
			out = append(out, w)
		}
	}
	return out
}

// sortByCount is a stable insertion sort, descending by the accessor.
func sortByCount[T any](items []T, count func(T) int) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && count(items[j]) < count(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

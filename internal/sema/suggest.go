package sema

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"polyc/internal/diag"
	"polyc/internal/fix"
	"polyc/internal/source"
)

// suggest picks the candidate closest to target: a fuzzy subsequence match
// first, otherwise the nearest by edit distance when it is close enough.
func suggest(target string, candidates []string) string {
	if len(candidates) == 0 || target == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		if ranks[0].Target != target {
			return ranks[0].Target
		}
	}
	best, bestDist := "", len(target)/3+1
	for _, cand := range candidates {
		if cand == target {
			continue
		}
		if d := fuzzy.LevenshteinDistance(target, cand); d <= bestDist && (best == "" || d < bestDist) {
			best, bestDist = cand, d
		}
	}
	return best
}

// didYouMean formats a suggestion suffix for a diagnostic message.
func didYouMean(target string, candidates []string) string {
	return hint(suggest(target, candidates))
}

func hint(s string) string {
	if s == "" {
		return ""
	}
	return " Did you mean \"" + s + "\"?"
}

// renameFix replaces from, expected under sp, with to.
func renameFix(sp source.Span, from, to string) diag.Fix {
	return fix.ReplaceSpan(fmt.Sprintf("replace %q with %q", from, to), sp, to, from)
}

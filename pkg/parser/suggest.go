package parser

import (
	"github.com/xrash/smetrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SuggestionThreshold is the minimum Jaro-Winkler similarity for a
// suggestion; equivalently, the distance must stay below 0.2.
const SuggestionThreshold = 0.8

var upper = cases.Upper(language.Und)

// Similarity returns the Jaro-Winkler similarity of a and b in [0, 1].
func Similarity(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// Suggest returns the candidate keyword closest to found, if any is close
// enough. Only keyword labels are considered; punctuation and kind labels
// such as "identifier" never match. A candidate equal to found is skipped.
// Candidates are expected in sorted order, which breaks ties.
func Suggest(found string, candidates []string) (string, bool) {
	norm := upper.String(found)
	best, bestScore := "", SuggestionThreshold
	for _, c := range candidates {
		if !isKeywordLabel(c) || c == norm {
			continue
		}
		if s := Similarity(norm, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, best != ""
}

func isKeywordLabel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < 'A' || s[i] > 'Z') && s[i] != '_' {
			return false
		}
	}
	return true
}

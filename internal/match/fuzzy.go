package match

import "strings"

// DefaultFuzzyThreshold is the similarity a pair of strings must reach to be
// considered a match when the caller does not supply its own threshold.
const DefaultFuzzyThreshold = 0.75

// FuzzyMatcher compares strings using a normalized Levenshtein similarity
// ratio. It is stateless apart from the configured acceptance threshold and
// safe for concurrent use.
type FuzzyMatcher struct {
	threshold float64
}

// NewFuzzyMatcher creates a matcher with the given acceptance threshold.
// Thresholds outside (0, 1] fall back to DefaultFuzzyThreshold.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyMatcher{threshold: threshold}
}

// Threshold returns the configured acceptance threshold.
func (m *FuzzyMatcher) Threshold() float64 { return m.threshold }

// Match reports whether a and b are similar enough under the configured
// threshold, along with the raw similarity ratio.
func (m *FuzzyMatcher) Match(a, b string) (bool, float64) {
	return m.MatchWithThreshold(a, b, m.threshold)
}

// MatchWithThreshold is Match with a per-call threshold override.
// Either input being empty yields (false, 0.0); an exact match after
// normalization yields (true, 1.0).
func (m *FuzzyMatcher) MatchWithThreshold(a, b string, threshold float64) (bool, float64) {
	a = normalize(a)
	b = normalize(b)

	if a == "" || b == "" {
		return false, 0.0
	}

	if a == b {
		return true, 1.0
	}

	similarity := Similarity(a, b)
	return similarity >= threshold, similarity
}

// FindBestMatch returns the candidate with the highest similarity to query.
// When no candidate clears the threshold, ok is false and best is empty, but
// the best observed score is still returned for diagnostics.
func (m *FuzzyMatcher) FindBestMatch(query string, candidates []string) (best string, ok bool, score float64) {
	for _, candidate := range candidates {
		matched, similarity := m.Match(query, candidate)
		if similarity > score {
			score = similarity
			if matched {
				best = candidate
				ok = true
			}
		}
	}

	if !ok {
		return "", false, score
	}
	return best, true, score
}

// Similarity computes a normalized edit-distance ratio in [0, 1] between two
// already-normalized strings. Identical strings score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance with a single-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			best := deletion
			if insertion < best {
				best = insertion
			}
			if substitution < best {
				best = substitution
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

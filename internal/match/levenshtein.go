package match

// Levenshtein computes the Levenshtein distance (edit distance) between two strings.
// The distance is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to transform one string into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// Keep a as the shorter string so that the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// LevenshteinNormalized computes a similarity score between 0 and 1.
// 1.0 means identical strings, 0.0 means completely different.
func LevenshteinNormalized(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(len(a), len(b)))
}

// NameScore is the similarity of two identifiers: the best of the plain
// normalized score and the score with common suffixes stripped.
func NameScore(a, b string) float64 {
	plain := LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
	stripped := LevenshteinNormalized(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b))

	return max(plain, stripped)
}

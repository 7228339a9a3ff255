// Package align matches narration steps against extracted text blocks and
// produces one highlight bounding box per step.
package align

import (
	"strings"
	"unicode"
)

// Similarity scores how well two texts refer to the same page content.
// After normalization: identical texts score 1.0, substring containment in
// either direction scores 0.9, and everything else scores the larger of the
// Jaccard word overlap and the containment ratio of the shorter token set.
// An empty side always scores 0. Results lie in [0,1].
func Similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.9
	}

	setA, setB := tokenSet(na), tokenSet(nb)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	overlap := 0
	for tok := range setA {
		if setB[tok] {
			overlap++
		}
	}
	union := len(setA) + len(setB) - overlap
	jaccard := float64(overlap) / float64(union)

	shorter := len(setA)
	if len(setB) < shorter {
		shorter = len(setB)
	}
	containment := float64(overlap) / float64(shorter)

	if containment > jaccard {
		return containment
	}
	return jaccard
}

// normalize lowercases, strips punctuation and collapses whitespace.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

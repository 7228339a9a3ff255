package segment

import (
	"regexp"
	"strings"
	"unicode"

	"eobtools/internal/heuristics"
)

// highImportancePhrases are EOB phrases whose presence marks a block as worth
// narrating. Matched case-insensitively as substrings.
var highImportancePhrases = []string{
	"this is not a bill",
	"explanation of benefits",
	"total",
	"amount billed",
	"allowed amount",
	"plan paid",
	"deductible",
	"coinsurance",
	"copay",
	"your responsibility",
	"balance",
	"amount due",
	"claim",
	"benefit",
	"payment",
}

var (
	amountPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{2})?`)
	phonePattern  = regexp.MustCompile(`(?:1[-.\s])?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}`)
)

// Scorer assigns each text an importance score in [0,1].
type Scorer struct {
	cfg heuristics.Config
}

// NewScorer returns a Scorer using the given heuristics.
func NewScorer(cfg heuristics.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score is a pure function of the text: fixed weights are added per matched
// phrase, dollar amount, phone number and all-caps heading, then divided by
// the normalizing constant and clamped to 1. Empty text scores 0.
func (s *Scorer) Score(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	lower := strings.ToLower(trimmed)
	var score float64
	for _, phrase := range highImportancePhrases {
		if strings.Contains(lower, phrase) {
			score += s.cfg.KeywordWeight
		}
	}
	if amountPattern.MatchString(trimmed) {
		score += s.cfg.AmountWeight
	}
	if phonePattern.MatchString(trimmed) {
		score += s.cfg.PhoneWeight
	}
	if isHeading(trimmed) {
		score += s.cfg.HeadingWeight
	}

	score /= s.cfg.ImportanceNormalizer
	if score > 1 {
		score = 1
	}
	return score
}

// isHeading reports whether the text reads as an all-caps heading: at least
// four characters, at least one letter, and no lowercase letters.
func isHeading(text string) bool {
	if len(text) < 4 {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

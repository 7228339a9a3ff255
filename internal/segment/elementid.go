package segment

import (
	"regexp"
	"strings"
)

var (
	numberedItemPattern = regexp.MustCompile(`^(\d+)[.)]\s`)
	currencyPattern     = regexp.MustCompile(`\$\s?\d`)
	serviceDatePattern  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	contactPattern      = regexp.MustCompile(`(?:\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4})|(?:\S+@\S+\.\S+)`)
	tableRowPattern     = regexp.MustCompile(`\S\s{2,}\S.*\s{2,}\S`)
	slugStripPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// ElementID maps block text to a slug-style identifier via ordered rule
// checks; the first matching rule wins. IDs are cosmetic labels for generated
// markup and debugging output, nothing dispatches on them.
func ElementID(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return "empty"
	case numberedItemPattern.MatchString(trimmed):
		return "item-" + numberedItemPattern.FindStringSubmatch(trimmed)[1]
	case isHeading(trimmed):
		return "heading-" + slug(trimmed, 4)
	case currencyPattern.MatchString(trimmed):
		return "amount-" + slug(trimmed, 3)
	case serviceDatePattern.MatchString(trimmed):
		return "service-date"
	case contactPattern.MatchString(trimmed):
		return "contact-info"
	case tableRowPattern.MatchString(trimmed):
		return "table-row"
	default:
		return "content-" + slug(trimmed, 3)
	}
}

// slug lowercases the first n words and joins them with hyphens.
func slug(text string, n int) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > n {
		words = words[:n]
	}
	s := slugStripPattern.ReplaceAllString(strings.Join(words, "-"), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "block"
	}
	return s
}

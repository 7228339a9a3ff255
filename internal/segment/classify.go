package segment

import (
	"strings"

	"eobtools/pkg/models"
)

// sectionBucket pairs a section key with its keyword patterns and display
// color. Buckets are evaluated in declaration order; the first bucket with any
// substring match in the lowercased input wins.
type sectionBucket struct {
	Key      models.SectionKey
	Label    string
	Color    string
	Patterns []string
}

var sectionBuckets = []sectionBucket{
	{
		Key:   models.SectionDocumentHeader,
		Label: "Document Header",
		Color: "#4e79a7",
		Patterns: []string{
			"explanation of benefits",
			"this is not a bill",
			"statement date",
			"claim number",
			"claim #",
			"document id",
		},
	},
	{
		Key:   models.SectionPatientInfo,
		Label: "Patient Information",
		Color: "#59a14f",
		Patterns: []string{
			"patient",
			"member id",
			"member name",
			"subscriber",
			"group number",
			"date of birth",
			"policy number",
		},
	},
	{
		Key:   models.SectionServiceDetails,
		Label: "Service Details",
		Color: "#f28e2b",
		Patterns: []string{
			"date of service",
			"service",
			"procedure",
			"provider",
			"description",
			"cpt",
			"diagnosis",
		},
	},
	{
		Key:   models.SectionFinancialSummary,
		Label: "Financial Summary",
		Color: "#e15759",
		Patterns: []string{
			"total",
			"amount billed",
			"allowed amount",
			"plan paid",
			"deductible",
			"coinsurance",
			"copay",
			"your responsibility",
			"balance",
			"discount",
		},
	},
	{
		Key:   models.SectionPaymentInfo,
		Label: "Payment Information",
		Color: "#76b7b2",
		Patterns: []string{
			"payment",
			"check number",
			"check #",
			"paid to",
			"remittance",
			"ach",
		},
	},
	{
		Key:   models.SectionNotes,
		Label: "Notes",
		Color: "#b07aa1",
		Patterns: []string{
			"note",
			"remark",
			"message",
			"important information",
			"appeal",
			"customer service",
			"questions",
		},
	},
}

// Classify buckets text into one of the six EOB sections. The second return
// is false when no bucket matched; callers choose their own default
// (serviceDetails for tables, patientInfo for form fields, unclassified for
// paragraphs).
func Classify(text string) (models.SectionKey, bool) {
	lower := strings.ToLower(text)
	for _, bucket := range sectionBuckets {
		for _, pattern := range bucket.Patterns {
			if strings.Contains(lower, pattern) {
				return bucket.Key, true
			}
		}
	}
	return "", false
}

// ClassifyOrDefault returns the matched section, or def when nothing matched.
func ClassifyOrDefault(text string, def models.SectionKey) models.SectionKey {
	if key, ok := Classify(text); ok {
		return key
	}
	return def
}

// SectionColor returns the display color for a section, or a neutral gray for
// unknown keys.
func SectionColor(key models.SectionKey) string {
	for _, bucket := range sectionBuckets {
		if bucket.Key == key {
			return bucket.Color
		}
	}
	return "#9aa0a6"
}

// SectionLabel returns the human-readable name for a section.
func SectionLabel(key models.SectionKey) string {
	for _, bucket := range sectionBuckets {
		if bucket.Key == key {
			return bucket.Label
		}
	}
	return "Content"
}

package segment

import (
	"testing"

	"eobtools/pkg/models"
)

func TestClassify_Buckets(t *testing.T) {
	cases := []struct {
		text string
		want models.SectionKey
	}{
		{"EXPLANATION OF BENEFITS", models.SectionDocumentHeader},
		{"THIS IS NOT A BILL", models.SectionDocumentHeader},
		{"Claim Number: 2024-001234", models.SectionDocumentHeader},
		{"Patient: John Q Sample", models.SectionPatientInfo},
		{"Member ID: XYZ123456789", models.SectionPatientInfo},
		{"Date of Service: 03/14/2024", models.SectionServiceDetails},
		{"Provider: Dr. Smith, Family Medicine", models.SectionServiceDetails},
		{"Total Claim Cost $406.60", models.SectionFinancialSummary},
		{"Deductible Applied: $50.00", models.SectionFinancialSummary},
		{"Payment issued 04/02/2024", models.SectionPaymentInfo},
		{"Check Number 00012345", models.SectionPaymentInfo},
		{"Important information about your appeal rights", models.SectionNotes},
		{"Remark code N130", models.SectionNotes},
	}
	for _, c := range cases {
		got, ok := Classify(c.text)
		if !ok {
			t.Errorf("Classify(%q): expected a match, got none", c.text)
			continue
		}
		if got != c.want {
			t.Errorf("Classify(%q): expected %q, got %q", c.text, c.want, got)
		}
	}
}

func TestClassify_NoMatch(t *testing.T) {
	if key, ok := Classify("lorem ipsum dolor sit amet"); ok {
		t.Errorf("expected no match, got %q", key)
	}
}

func TestClassify_EarlierBucketWins(t *testing.T) {
	// "claim number" (document header) and "total" (financial summary) both
	// match; declaration order decides.
	got, ok := Classify("Claim Number 998 total")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != models.SectionDocumentHeader {
		t.Errorf("expected documentHeader to win, got %q", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	const text = "Amount Billed $406.60 by provider"
	first, ok := Classify(text)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 5; i++ {
		got, _ := Classify(text)
		if got != first {
			t.Fatalf("Classify not deterministic: %q then %q", first, got)
		}
	}
}

func TestClassifyOrDefault(t *testing.T) {
	if got := ClassifyOrDefault("no bucket matches this", models.SectionServiceDetails); got != models.SectionServiceDetails {
		t.Errorf("expected default serviceDetails, got %q", got)
	}
	if got := ClassifyOrDefault("Deductible $50.00", models.SectionServiceDetails); got != models.SectionFinancialSummary {
		t.Errorf("expected financialSummary, got %q", got)
	}
}

func TestSectionColorAndLabel(t *testing.T) {
	if got := SectionColor(models.SectionFinancialSummary); got != "#e15759" {
		t.Errorf("unexpected financialSummary color %q", got)
	}
	if got := SectionColor("bogus"); got != "#9aa0a6" {
		t.Errorf("expected neutral gray for unknown section, got %q", got)
	}
	if got := SectionLabel(models.SectionPatientInfo); got != "Patient Information" {
		t.Errorf("unexpected patientInfo label %q", got)
	}
	if got := SectionLabel("bogus"); got != "Content" {
		t.Errorf("expected generic label for unknown section, got %q", got)
	}
}

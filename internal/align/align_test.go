package align

import (
	"testing"

	"eobtools/internal/heuristics"
	"eobtools/pkg/models"
)

func eobBlocks() []models.TextBlock {
	return []models.TextBlock{
		{ID: "heading-this-is-not-a-0", Text: "THIS IS NOT A BILL", X: 40, Y: 20, Width: 300, Height: 18, Section: models.SectionDocumentHeader},
		{ID: "content-patient-john-q-1", Text: "Patient: John Q Sample", X: 40, Y: 80, Width: 220, Height: 14, Section: models.SectionPatientInfo},
		{ID: "amount-total-claim-cost-2", Text: "Total Claim Cost $406.60", X: 40, Y: 400, Width: 240, Height: 14, Section: models.SectionFinancialSummary},
		{ID: "content-plan-paid-3", Text: "Plan Paid $350.00", X: 40, Y: 430, Width: 200, Height: 14, Section: models.SectionFinancialSummary},
	}
}

func steps(highlightTexts ...string) []models.NarrationStep {
	var out []models.NarrationStep
	for i, ht := range highlightTexts {
		out = append(out, models.NarrationStep{
			StepNumber:    i + 1,
			Title:         "Step",
			Narrative:     "About " + ht,
			HighlightText: ht,
		})
	}
	return out
}

func TestAlign_OneHighlightPerStep(t *testing.T) {
	a := New(heuristics.Default())
	in := steps("This is not a bill", "Total Claim Cost $406.60", "something that matches nothing on the page")

	highlights := a.Align(in, eobBlocks())
	if len(highlights) != len(in) {
		t.Fatalf("expected %d highlights, got %d", len(in), len(highlights))
	}
	for i, h := range highlights {
		if h.Step != i+1 {
			t.Errorf("highlight %d: expected step %d, got %d", i, i+1, h.Step)
		}
	}
}

func TestAlign_ExactMatchClaimsBlock(t *testing.T) {
	a := New(heuristics.Default())
	highlights := a.Align(steps("This is not a bill"), eobBlocks())

	h := highlights[0]
	if h.NeedsReview {
		t.Fatal("exact match should not need review")
	}
	if h.X != 40 || h.Y != 20 || h.Width != 300 || h.Height != 18 {
		t.Errorf("expected block geometry (40,20,300,18), got (%v,%v,%v,%v)", h.X, h.Y, h.Width, h.Height)
	}
	if h.Section != models.SectionDocumentHeader {
		t.Errorf("expected section carried from block, got %q", h.Section)
	}
}

func TestAlign_BlocksConsumedWithoutReplacement(t *testing.T) {
	a := New(heuristics.Default())
	// Two steps wanting the same text; only one block carries it.
	highlights := a.Align(steps("Total Claim Cost $406.60", "Total Claim Cost $406.60"), eobBlocks())

	if highlights[0].NeedsReview {
		t.Fatal("first step should claim the block")
	}
	if !highlights[1].NeedsReview {
		t.Error("second step should fall back once the block is consumed")
	}
}

func TestAlign_UnmatchedStepGetsReviewPlaceholder(t *testing.T) {
	cfg := heuristics.Default()
	a := New(cfg)
	highlights := a.Align(steps("totally unrelated narration text", "another miss"), eobBlocks())

	for i, h := range highlights {
		if !h.NeedsReview {
			t.Fatalf("highlight %d: expected needsReview", i)
		}
		if h.X != cfg.FallbackX {
			t.Errorf("highlight %d: expected fallback x %v, got %v", i, cfg.FallbackX, h.X)
		}
		wantY := cfg.FallbackYStart + float64(i)*cfg.FallbackYStride
		if h.Y != wantY {
			t.Errorf("highlight %d: expected stacked y %v, got %v", i, wantY, h.Y)
		}
	}
}

func TestAlign_MergesNearbyMatchingBlocks(t *testing.T) {
	a := New(heuristics.Default())
	blocks := []models.TextBlock{
		{ID: "a", Text: "Total Claim", X: 40, Y: 400, Width: 110, Height: 14, Section: models.SectionFinancialSummary},
		{ID: "b", Text: "Total Claim Cost", X: 160, Y: 402, Width: 130, Height: 14, Section: models.SectionFinancialSummary},
		{ID: "far", Text: "Total Claim Cost", X: 40, Y: 700, Width: 240, Height: 14, Section: models.SectionFinancialSummary},
	}

	highlights := a.Align(steps("Total Claim Cost"), blocks)
	h := highlights[0]
	if h.NeedsReview {
		t.Fatal("expected a match")
	}
	// The exact block anchors; the adjacent partial merges in, the distant
	// duplicate does not.
	if h.X != 40 || h.Width != 250 {
		t.Errorf("expected merged box x=40 width=250, got x=%v width=%v", h.X, h.Width)
	}
	if h.Y != 400 {
		t.Errorf("expected merged box y=400, got %v", h.Y)
	}
}

func TestAlign_NarrativeUsedWhenHighlightTextEmpty(t *testing.T) {
	a := New(heuristics.Default())
	in := []models.NarrationStep{{
		StepNumber: 1,
		Narrative:  "Plan Paid $350.00",
	}}

	highlights := a.Align(in, eobBlocks())
	if highlights[0].NeedsReview {
		t.Fatal("expected narrative fallback target to match")
	}
	if highlights[0].Text != "Plan Paid $350.00" {
		t.Errorf("unexpected highlight text %q", highlights[0].Text)
	}
}

func TestAlign_EmptyInputs(t *testing.T) {
	a := New(heuristics.Default())

	if got := a.Align(nil, eobBlocks()); len(got) != 0 {
		t.Errorf("expected no highlights for no steps, got %d", len(got))
	}
	got := a.Align(steps("This is not a bill"), nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(got))
	}
	if !got[0].NeedsReview {
		t.Error("expected review placeholder when the page has no blocks")
	}
}

package narrate

import (
	"strings"
	"testing"

	"eobtools/pkg/models"
)

const validReply = `{
  "title": "Your Explanation of Benefits",
  "introduction": "Let's look at this claim together.",
  "steps": [
    {"stepNumber": 5, "title": "Not a Bill", "narrative": "This document is informational.", "highlightText": "THIS IS NOT A BILL", "duration": 6},
    {"title": "The Total", "narrative": "The full cost of the visit.", "highlightText": "Total Claim Cost $406.60"}
  ],
  "conclusion": "And that's your EOB."
}`

func TestParseScript_ValidReply(t *testing.T) {
	script, err := ParseScript(validReply, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if script.Title != "Your Explanation of Benefits" {
		t.Errorf("unexpected title %q", script.Title)
	}
	if len(script.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(script.Steps))
	}
	// Steps are renumbered regardless of what the model sent.
	if script.Steps[0].StepNumber != 1 || script.Steps[1].StepNumber != 2 {
		t.Errorf("expected steps renumbered 1,2, got %d,%d", script.Steps[0].StepNumber, script.Steps[1].StepNumber)
	}
	if script.Steps[0].Duration != 6 {
		t.Errorf("expected explicit duration kept, got %v", script.Steps[0].Duration)
	}
	if script.Steps[1].Duration != 8 {
		t.Errorf("expected default duration 8, got %v", script.Steps[1].Duration)
	}
}

func TestParseScript_ProseWrappedJSON(t *testing.T) {
	wrapped := "Sure! Here is the script you asked for:\n\n" + validReply + "\n\nLet me know if you need changes."
	script, err := ParseScript(wrapped, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(script.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(script.Steps))
	}
}

func TestParseScript_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no json", "I cannot produce a script for this document."},
		{"not an object", `"just a string"`},
		{"truncated", `{"title": "x", "steps": [{"title": "a"`},
		{"missing steps", `{"title": "x"}`},
		{"empty steps", `{"title": "x", "steps": []}`},
		{"step missing narrative", `{"title": "x", "steps": [{"title": "a", "highlightText": "b"}]}`},
		{"empty title", `{"title": "", "steps": [{"title": "a", "narrative": "n", "highlightText": "b"}]}`},
	}
	for _, c := range cases {
		if _, err := ParseScript(c.raw, 8); err == nil {
			t.Errorf("%s: expected error, got none", c.name)
		}
	}
}

func TestFallbackScript_FiltersAndOrders(t *testing.T) {
	config := DefaultGeneratorConfig()
	blocks := []models.TextBlock{
		{Text: "fine print", Y: 700, Importance: 0.1},
		{Text: "Total Claim Cost $406.60", Y: 400, Importance: 0.9, Section: models.SectionFinancialSummary},
		{Text: "THIS IS NOT A BILL", Y: 20, Importance: 0.5, Section: models.SectionDocumentHeader},
	}

	script := FallbackScript(blocks, config)
	if len(script.Steps) != 2 {
		t.Fatalf("expected low-importance block dropped, got %d steps", len(script.Steps))
	}
	if script.Steps[0].HighlightText != "Total Claim Cost $406.60" {
		t.Errorf("expected most important block first, got %q", script.Steps[0].HighlightText)
	}
	if script.Steps[0].Title != "Financial Summary" {
		t.Errorf("expected section label title, got %q", script.Steps[0].Title)
	}
	if script.Steps[1].StepNumber != 2 {
		t.Errorf("expected sequential numbering, got %d", script.Steps[1].StepNumber)
	}
	for _, step := range script.Steps {
		if step.Duration != config.StepDuration {
			t.Errorf("expected duration %v, got %v", config.StepDuration, step.Duration)
		}
	}
}

func TestFallbackScript_KeepsBestBlockWhenNoneClearCutoff(t *testing.T) {
	config := DefaultGeneratorConfig()
	blocks := []models.TextBlock{
		{Text: "fine print", Importance: 0.05},
		{Text: "slightly better print", Importance: 0.12},
	}

	script := FallbackScript(blocks, config)
	if len(script.Steps) != 1 {
		t.Fatalf("expected exactly 1 step, got %d", len(script.Steps))
	}
	if script.Steps[0].HighlightText != "slightly better print" {
		t.Errorf("expected the best-scoring block, got %q", script.Steps[0].HighlightText)
	}
	if script.Steps[0].Title != "Key Information" {
		t.Errorf("expected generic title for unclassified block, got %q", script.Steps[0].Title)
	}
}

func TestFallbackScript_CapsSteps(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.MaxSteps = 3

	var blocks []models.TextBlock
	for i := 0; i < 10; i++ {
		blocks = append(blocks, models.TextBlock{
			Text:       strings.Repeat("x", i+1),
			Y:          float64(i * 40),
			Importance: 0.5,
		})
	}

	script := FallbackScript(blocks, config)
	if len(script.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(script.Steps))
	}
}

func TestFallbackScript_TruncatesLongNarratives(t *testing.T) {
	config := DefaultGeneratorConfig()
	long := strings.Repeat("éclair ", 60)
	blocks := []models.TextBlock{{Text: long, Importance: 0.9}}

	script := FallbackScript(blocks, config)
	narrative := script.Steps[0].Narrative
	if !strings.HasSuffix(narrative, "…") {
		t.Errorf("expected truncated narrative to end with ellipsis, got %q", narrative)
	}
	if got := len([]rune(narrative)); got > 200 {
		t.Errorf("expected narrative capped, got %d runes", got)
	}
	if script.Steps[0].HighlightText != long {
		t.Error("expected highlight text left untruncated for alignment")
	}
}

func TestFallbackScript_EmptyBlocks(t *testing.T) {
	script := FallbackScript(nil, DefaultGeneratorConfig())
	if len(script.Steps) != 0 {
		t.Errorf("expected no steps for empty input, got %d", len(script.Steps))
	}
	if script.Title == "" {
		t.Error("expected a title even with no steps")
	}
}

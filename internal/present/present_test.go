package present

import (
	"strings"
	"testing"

	"eobtools/internal/tts"
	"eobtools/pkg/models"
)

func sampleScript() *models.Script {
	return &models.Script{
		Title:        "Your Explanation of Benefits",
		Introduction: "Let's walk through this claim.",
		Conclusion:   "That's everything.",
		Steps: []models.NarrationStep{
			{StepNumber: 1, Title: "Not a Bill", Narrative: "This document is informational.", HighlightText: "THIS IS NOT A BILL", Duration: 6},
			{StepNumber: 2, Title: "The Total", Narrative: "The full cost of the visit.", HighlightText: "Total Claim Cost $406.60", Duration: 8},
		},
	}
}

func sampleHighlights() []models.AlignedHighlight {
	return []models.AlignedHighlight{
		{Step: 1, X: 40, Y: 20, Width: 300, Height: 18, Text: "THIS IS NOT A BILL", Section: models.SectionDocumentHeader},
		{Step: 2, X: 40, Y: 400, Width: 240, Height: 14, Text: "", NeedsReview: true},
	}
}

func TestBuild_PairsStepsWithHighlightsAndAudio(t *testing.T) {
	audios := []tts.StepAudio{
		{Step: 1, DataURI: "data:audio/mp3;base64,QUJD"},
		{Step: 2}, // synthesis failed, no audio
	}
	p := Build(sampleScript(), sampleHighlights(), audios, 918, 1188, []byte("\x89PNG fake"))

	if p.Title != "Your Explanation of Benefits" {
		t.Errorf("unexpected title %q", p.Title)
	}
	if len(p.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(p.Steps))
	}

	first := p.Steps[0]
	if first.X != 40 || first.Y != 20 || first.Width != 300 || first.Height != 18 {
		t.Errorf("expected highlight geometry on step, got (%v,%v,%v,%v)", first.X, first.Y, first.Width, first.Height)
	}
	if first.Color != "#4e79a7" {
		t.Errorf("expected documentHeader color, got %q", first.Color)
	}
	if first.AudioURI != "data:audio/mp3;base64,QUJD" {
		t.Errorf("expected audio matched by step number, got %q", first.AudioURI)
	}

	second := p.Steps[1]
	if !second.NeedsReview {
		t.Error("expected needsReview carried over")
	}
	if second.Color != reviewColor {
		t.Errorf("expected review color %q, got %q", reviewColor, second.Color)
	}
	if second.AudioURI != "" {
		t.Errorf("expected no audio for failed step, got %q", second.AudioURI)
	}

	if !strings.HasPrefix(p.PageImage, "data:image/png;base64,") {
		t.Errorf("expected PNG data URI, got %q", p.PageImage)
	}
}

func TestBuild_NilSnapshotAndNoAudio(t *testing.T) {
	p := Build(sampleScript(), sampleHighlights(), nil, 918, 1188, nil)
	if p.PageImage != "" {
		t.Errorf("expected empty page image, got %q", p.PageImage)
	}
	for i, s := range p.Steps {
		if s.AudioURI != "" {
			t.Errorf("step %d: expected no audio, got %q", i, s.AudioURI)
		}
	}
}

func TestRender_SelfContainedDocument(t *testing.T) {
	p := Build(sampleScript(), sampleHighlights(), nil, 918, 1188, []byte("\x89PNG fake"))

	var b strings.Builder
	if err := Render(&b, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := b.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Your Explanation of Benefits",
		"Let&#39;s walk through this claim.",
		"width: 918px",
		"height: 1188px",
		`src="data:image/png;base64,`,
		`"needsReview":true`,
		`"color":"#4e79a7"`,
		"var steps =",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}

	// Nothing in the document references an external asset.
	for _, forbidden := range []string{"http://", "https://", "src=\"/"} {
		if strings.Contains(html, forbidden) {
			t.Errorf("rendered document references external asset via %q", forbidden)
		}
	}
}

func TestRender_EscapesScriptContent(t *testing.T) {
	script := sampleScript()
	script.Title = `<script>alert("x")</script>`
	script.Steps[0].Narrative = `</script><img onerror=alert(1)>`

	p := Build(script, sampleHighlights(), nil, 918, 1188, nil)
	var b strings.Builder
	if err := Render(&b, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := b.String()

	if strings.Contains(html, `<script>alert("x")</script>`) {
		t.Error("title rendered unescaped")
	}
	if strings.Contains(html, "</script><img onerror=alert(1)>") {
		t.Error("narrative rendered unescaped into the document")
	}
}

func TestRender_EmptyScript(t *testing.T) {
	p := Build(&models.Script{Title: "Empty"}, nil, nil, 918, 1188, nil)
	var b strings.Builder
	if err := Render(&b, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "var steps = []") {
		t.Error("expected empty steps array in rendered document")
	}
}

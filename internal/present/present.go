// Package present renders the final deliverable: a single self-contained HTML
// file with the page snapshot, absolutely positioned section-colored
// highlights, a step panel, playback controls and optional embedded audio.
// The file references no external assets.
package present

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"eobtools/internal/segment"
	"eobtools/internal/tts"
	"eobtools/pkg/models"
)

// reviewColor marks highlights whose step matched no page content.
const reviewColor = "#c9a227"

// Step is one playable unit of the presentation.
type Step struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	Narrative   string  `json:"narrative"`
	Duration    float64 `json:"duration"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	NeedsReview bool    `json:"needsReview"`
	Color       string  `json:"color"`
	AudioURI    string  `json:"audioURI,omitempty"`
}

// Presentation is the fully assembled artifact content.
type Presentation struct {
	Title        string
	Introduction string
	Conclusion   string
	PageWidth    float64
	PageHeight   float64
	PageImage    string // PNG data URI, empty for a blank page background
	Steps        []Step
}

// Build assembles a Presentation from the script, its aligned highlights and
// optional per-step audio. Highlights and steps are expected 1:1 in order;
// audio is matched by step number. A nil snapshot leaves the page background
// blank.
func Build(script *models.Script, highlights []models.AlignedHighlight, audios []tts.StepAudio, pageW, pageH float64, snapshot []byte) *Presentation {
	audioByStep := make(map[int]string, len(audios))
	for _, a := range audios {
		if a.DataURI != "" {
			audioByStep[a.Step] = a.DataURI
		}
	}

	p := &Presentation{
		Title:        script.Title,
		Introduction: script.Introduction,
		Conclusion:   script.Conclusion,
		PageWidth:    pageW,
		PageHeight:   pageH,
	}
	if len(snapshot) > 0 {
		p.PageImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(snapshot)
	}

	for i, step := range script.Steps {
		s := Step{
			Number:    step.StepNumber,
			Title:     step.Title,
			Narrative: step.Narrative,
			Duration:  step.Duration,
			AudioURI:  audioByStep[step.StepNumber],
		}
		if i < len(highlights) {
			h := highlights[i]
			s.X, s.Y, s.Width, s.Height = h.X, h.Y, h.Width, h.Height
			s.NeedsReview = h.NeedsReview
			if h.NeedsReview {
				s.Color = reviewColor
			} else {
				s.Color = segment.SectionColor(h.Section)
			}
		}
		p.Steps = append(p.Steps, s)
	}
	return p
}

// Render writes the presentation as a standalone HTML document.
func Render(w io.Writer, p *Presentation) error {
	steps := p.Steps
	if steps == nil {
		steps = []Step{}
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	data := struct {
		*Presentation
		PageImageURL template.URL
		StepsJSON    template.JS
	}{
		Presentation: p,
		PageImageURL: template.URL(p.PageImage),
		StepsJSON:    template.JS(stepsJSON),
	}
	if err := presentationTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render presentation: %w", err)
	}
	return nil
}

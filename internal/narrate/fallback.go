package narrate

import (
	"fmt"
	"sort"
	"strings"

	"eobtools/internal/segment"
	"eobtools/pkg/models"
)

// FallbackScript builds a narration script directly from important text
// blocks, without any model call. Blocks below the importance cutoff are
// skipped; the remainder are ordered by importance (descending) then vertical
// position and capped at MaxSteps. Always returns at least one step for a
// non-empty block list: when nothing clears the cutoff, the highest-scoring
// block is narrated alone.
func FallbackScript(blocks []models.TextBlock, config GeneratorConfig) *models.Script {
	candidates := make([]models.TextBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.Importance >= config.FallbackImportance && strings.TrimSpace(block.Text) != "" {
			candidates = append(candidates, block)
		}
	}
	if len(candidates) == 0 && len(blocks) > 0 {
		best := blocks[0]
		for _, block := range blocks[1:] {
			if block.Importance > best.Importance {
				best = block
			}
		}
		candidates = []models.TextBlock{best}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Importance != candidates[j].Importance {
			return candidates[i].Importance > candidates[j].Importance
		}
		return candidates[i].Y < candidates[j].Y
	})
	if config.MaxSteps > 0 && len(candidates) > config.MaxSteps {
		candidates = candidates[:config.MaxSteps]
	}

	script := &models.Script{
		Title:        "Your Explanation of Benefits",
		Introduction: "Let's walk through the key parts of this Explanation of Benefits document.",
		Conclusion:   "That covers the highlights of this document. Contact your insurer if anything looks unfamiliar.",
	}

	for i, block := range candidates {
		script.Steps = append(script.Steps, models.NarrationStep{
			StepNumber:    i + 1,
			Title:         stepTitle(block),
			Narrative:     stepNarrative(block),
			HighlightText: block.Text,
			Duration:      config.StepDuration,
		})
	}
	return script
}

func stepTitle(block models.TextBlock) string {
	if block.Section != "" {
		return segment.SectionLabel(block.Section)
	}
	return "Key Information"
}

func stepNarrative(block models.TextBlock) string {
	text := block.Text
	if runes := []rune(text); len(runes) > 160 {
		text = string(runes[:160]) + "…"
	}
	if block.Section != "" {
		return fmt.Sprintf("This part of the %s reads: %s", strings.ToLower(segment.SectionLabel(block.Section)), text)
	}
	return fmt.Sprintf("Take note of this: %s", text)
}

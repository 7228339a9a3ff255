package align

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"eobtools/internal/heuristics"
	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

// Aligner matches narration steps to text blocks greedily, in step order,
// without replacement: each block is consumed by at most one step, and every
// step yields exactly one highlight, real or placeholder.
type Aligner struct {
	cfg heuristics.Config
	log zerolog.Logger
}

// New returns an Aligner using the given heuristics.
func New(cfg heuristics.Config) *Aligner {
	return &Aligner{
		cfg: cfg,
		log: logger.WithComponent("align"),
	}
}

// Align produces one AlignedHighlight per step. For each step, the
// best-scoring unused block is claimed when it has nonzero text and size and
// its similarity clears the accept threshold; unused blocks within the
// spatial merge tolerances whose similarity clears the merge threshold are
// folded into the same highlight and marked used. Steps with no acceptable
// block get a NeedsReview highlight at a synthesized position stacked down
// the page.
func (a *Aligner) Align(steps []models.NarrationStep, blocks []models.TextBlock) []models.AlignedHighlight {
	used := make([]bool, len(blocks))
	highlights := make([]models.AlignedHighlight, 0, len(steps))

	for i, step := range steps {
		target := step.HighlightText
		if strings.TrimSpace(target) == "" {
			target = step.Narrative
		}

		best, bestScore := a.bestBlock(target, blocks, used)
		if best < 0 {
			highlights = append(highlights, a.fallbackHighlight(step, i, target))
			a.log.Debug().
				Int("step", step.StepNumber).
				Str("target", target).
				Msg("No block cleared similarity threshold, flagging for review")
			continue
		}

		used[best] = true
		h := models.AlignedHighlight{
			Step:    step.StepNumber,
			X:       blocks[best].X,
			Y:       blocks[best].Y,
			Width:   blocks[best].Width,
			Height:  blocks[best].Height,
			Text:    blocks[best].Text,
			Section: blocks[best].Section,
		}
		merged := a.mergeNearby(&h, target, blocks[best], blocks, used)

		a.log.Debug().
			Int("step", step.StepNumber).
			Float64("score", bestScore).
			Int("merged_blocks", merged).
			Str("block_id", blocks[best].ID).
			Msg("Step aligned to block")

		highlights = append(highlights, h)
	}
	return highlights
}

// bestBlock returns the index and score of the highest-similarity unused
// block that is acceptable for the target, or -1 when none clears the
// threshold.
func (a *Aligner) bestBlock(target string, blocks []models.TextBlock, used []bool) (int, float64) {
	best, bestScore := -1, 0.0
	for i, block := range blocks {
		if used[i] {
			continue
		}
		score := Similarity(target, block.Text)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < a.cfg.SimilarityAccept {
		return -1, 0
	}
	b := blocks[best]
	if strings.TrimSpace(b.Text) == "" || b.Width <= 0 || b.Height <= 0 {
		return -1, 0
	}
	return best, bestScore
}

// mergeNearby folds unused blocks adjacent to the anchor into the highlight
// and returns how many were merged.
func (a *Aligner) mergeNearby(h *models.AlignedHighlight, target string, anchor models.TextBlock, blocks []models.TextBlock, used []bool) int {
	merged := 0
	for i, block := range blocks {
		if used[i] {
			continue
		}
		if math.Abs(block.Y-anchor.Y) > a.cfg.MergeMaxVertical ||
			math.Abs(block.X-anchor.X) > a.cfg.MergeMaxHorizontal {
			continue
		}
		if Similarity(target, block.Text) <= a.cfg.SimilarityMerge {
			continue
		}
		used[i] = true
		merged++
		x2 := math.Max(h.X+h.Width, block.X+block.Width)
		y2 := math.Max(h.Y+h.Height, block.Y+block.Height)
		h.X = math.Min(h.X, block.X)
		h.Y = math.Min(h.Y, block.Y)
		h.Width = x2 - h.X
		h.Height = y2 - h.Y
		h.Text += " " + block.Text
	}
	return merged
}

func (a *Aligner) fallbackHighlight(step models.NarrationStep, index int, target string) models.AlignedHighlight {
	return models.AlignedHighlight{
		Step:        step.StepNumber,
		X:           a.cfg.FallbackX,
		Y:           a.cfg.FallbackYStart + float64(index)*a.cfg.FallbackYStride,
		Width:       a.cfg.FallbackWidth,
		Height:      a.cfg.FallbackHeight,
		Text:        target,
		NeedsReview: true,
	}
}

// Package segment implements the text-block pipeline at the heart of EOB
// processing: grouping glyph runs into semantic blocks, scoring their
// importance, classifying them into document sections and labeling them with
// stable element identifiers.
//
// Everything in this package is pure logic over in-memory values. Nothing here
// performs I/O or returns errors; malformed input degrades to empty or
// low-confidence results.
package segment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"eobtools/internal/heuristics"
	"eobtools/pkg/models"
)

// Segmenter groups TextItems into TextBlocks using spatial gap heuristics.
type Segmenter struct {
	cfg heuristics.Config
}

// NewSegmenter returns a Segmenter using the given heuristics.
func NewSegmenter(cfg heuristics.Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment merges adjacent items into blocks in one pass. Items are sorted
// top-to-bottom, then left-to-right, before grouping: a new block starts when
// the vertical gap to the previous item exceeds item height times
// VerticalGapScale, or the horizontal gap exceeds item height times
// HorizontalGapScale. Merging joins text with a single space and grows the
// block box to the union. Empty input yields empty output.
func (s *Segmenter) Segment(items []models.TextItem) []models.TextBlock {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]models.TextItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var blocks []models.TextBlock
	var cur *models.TextBlock
	var last models.TextItem

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}

	for _, item := range sorted {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		if cur == nil || s.splits(last, item) {
			flush()
			cur = &models.TextBlock{
				X:          item.X,
				Y:          item.Y,
				Width:      item.Width,
				Height:     item.Height,
				Text:       item.Text,
				FontSize:   item.Height,
				FontFamily: item.FontName,
			}
		} else {
			cur.Text += " " + item.Text
			union(cur, item)
		}
		last = item
	}
	flush()

	for i := range blocks {
		blocks[i].ID = fmt.Sprintf("%s-%d", ElementID(blocks[i].Text), i)
	}
	return blocks
}

// splits reports whether item starts a new block relative to the previous one.
func (s *Segmenter) splits(prev, item models.TextItem) bool {
	h := item.Height
	if h <= 0 {
		h = prev.Height
	}
	vGap := math.Abs(item.Y - prev.Y)
	if vGap > h*s.cfg.VerticalGapScale {
		return true
	}
	hGap := item.X - (prev.X + prev.Width)
	return hGap > h*s.cfg.HorizontalGapScale
}

func union(b *models.TextBlock, item models.TextItem) {
	x2 := math.Max(b.X+b.Width, item.X+item.Width)
	y2 := math.Max(b.Y+b.Height, item.Y+item.Height)
	b.X = math.Min(b.X, item.X)
	b.Y = math.Min(b.Y, item.Y)
	b.Width = x2 - b.X
	b.Height = y2 - b.Y
}

// AssignSteps orders blocks by importance (descending), breaking ties by
// vertical position (topmost first), and renumbers Step 1..N in that order.
// The returned slice is a reordered copy; the input is not modified.
func AssignSteps(blocks []models.TextBlock) []models.TextBlock {
	out := make([]models.TextBlock, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Y < out[j].Y
	})
	for i := range out {
		out[i].Step = i + 1
	}
	return out
}

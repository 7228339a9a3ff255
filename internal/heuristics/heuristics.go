// Package heuristics centralizes the tuning constants shared by the
// segmentation, importance-scoring and narration-alignment packages.
//
// These values were previously re-derived ad hoc at each call site; keeping them
// in one documented Config makes the thresholds auditable and lets commands
// override them uniformly.
package heuristics

// Config holds every numeric heuristic used by the text pipeline. Zero values
// are not meaningful; obtain a Config from Default and adjust fields as
// needed.
type Config struct {
	// VerticalGapScale starts a new text block when the vertical gap between
	// an item and the previous one exceeds item height times this factor.
	VerticalGapScale float64

	// HorizontalGapScale starts a new text block when the horizontal gap
	// between an item and the previous one exceeds item height times this
	// factor.
	HorizontalGapScale float64

	// KeywordWeight is added to the importance score for each matched
	// high-importance phrase.
	KeywordWeight float64

	// AmountWeight is added when the text contains a dollar amount.
	AmountWeight float64

	// PhoneWeight is added when the text contains a phone number.
	PhoneWeight float64

	// HeadingWeight is added when the text looks like an all-caps heading.
	HeadingWeight float64

	// ImportanceNormalizer divides the accumulated importance weight before
	// clamping to [0,1].
	ImportanceNormalizer float64

	// ImportanceFilter drops blocks scoring below it from narration
	// candidacy.
	ImportanceFilter float64

	// SimilarityAccept is the minimum similarity for a narration step to
	// claim a text block.
	SimilarityAccept float64

	// SimilarityMerge is the minimum similarity for an additional nearby
	// block to be merged into an accepted highlight.
	SimilarityMerge float64

	// MergeMaxVertical and MergeMaxHorizontal bound, in page pixels, how far
	// from the accepted block a merge candidate may sit.
	MergeMaxVertical   float64
	MergeMaxHorizontal float64

	// Fallback box geometry for steps that matched no block. Boxes are
	// stacked down the page so consecutive unmatched steps stay visible.
	FallbackX       float64
	FallbackYStart  float64
	FallbackYStride float64
	FallbackWidth   float64
	FallbackHeight  float64
}

// Default returns the tuned EOB heuristics.
//
// Gap multipliers of x2 vertical and x3 horizontal were settled on after
// trying x4/x5, which merges visually distinct label/value columns into a
// single block on every sample EOB. Both gaps are measured against item
// height: glyph-run width varies with string length and makes a poor
// yardstick.
func Default() Config {
	return Config{
		VerticalGapScale:     2,
		HorizontalGapScale:   3,
		KeywordWeight:        0.3,
		AmountWeight:         0.35,
		PhoneWeight:          0.2,
		HeadingWeight:        0.25,
		ImportanceNormalizer: 1.2,
		ImportanceFilter:     0.3,
		SimilarityAccept:     0.5,
		SimilarityMerge:      0.7,
		MergeMaxVertical:     50,
		MergeMaxHorizontal:   200,
		FallbackX:            40,
		FallbackYStart:       120,
		FallbackYStride:      60,
		FallbackWidth:        420,
		FallbackHeight:       36,
	}
}

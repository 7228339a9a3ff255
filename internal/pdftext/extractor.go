// Package pdftext extracts glyph-level text from the embedded text layer of a
// PDF page and converts it into top-down page-pixel TextItems at a viewport
// scale.
//
// Scanned (image-only) PDFs have no text layer and yield zero items; callers
// fall back to OCR word boxes for those. Page snapshots for the presentation
// artifact are rendered by shelling out to pdftoppm when available.
package pdftext

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

var (
	// ErrPageOutOfRange is returned when the requested page does not exist.
	ErrPageOutOfRange = errors.New("page number out of range")

	// ErrMalformedPage is returned when the page content stream cannot be
	// decoded.
	ErrMalformedPage = errors.New("malformed page content")
)

// US letter in PDF points, used when a page carries no MediaBox.
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

// Config controls extraction geometry.
type Config struct {
	// Scale multiplies all page coordinates; 1.5 matches the viewport scale
	// the presentation artifact is rendered at.
	Scale float64

	// CharGapScale joins two glyph runs without a separator when their
	// horizontal gap is at most font size times this factor.
	CharGapScale float64

	// WordGapScale joins two glyph runs with a single space when their
	// horizontal gap is at most font size times this factor. Larger gaps
	// start a new item.
	WordGapScale float64

	// LineTolerance treats two glyph runs as sharing a baseline when their
	// vertical distance is at most font size times this factor.
	LineTolerance float64
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{
		Scale:         1.5,
		CharGapScale:  0.3,
		WordGapScale:  1.0,
		LineTolerance: 0.5,
	}
}

// Extractor reads the text layer of PDF pages.
type Extractor struct {
	cfg Config
	log zerolog.Logger
}

// NewExtractor returns an Extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	if cfg.Scale <= 0 {
		cfg.Scale = 1.5
	}
	return &Extractor{
		cfg: cfg,
		log: logger.WithComponent("pdftext"),
	}
}

// Page extracts one page of the PDF at path. Page numbers are 1-based.
// A page with no embedded text layer yields an empty Items slice, not an
// error.
func (e *Extractor) Page(path string, pageNum int) (*models.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if pageNum < 1 || pageNum > reader.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNum, reader.NumPage())
	}

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d is null", ErrMalformedPage, pageNum)
	}

	width, height := pageSize(page)
	texts, err := pageContent(page)
	if err != nil {
		return nil, err
	}

	items := e.coalesce(texts, height)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Y != items[j].Y {
			return items[i].Y < items[j].Y
		}
		return items[i].X < items[j].X
	})

	e.log.Debug().
		Int("page", pageNum).
		Int("glyph_runs", len(texts)).
		Int("items", len(items)).
		Float64("scale", e.cfg.Scale).
		Msg("Extracted page text layer")

	return &models.PageText{
		PageNumber: pageNum,
		Width:      width * e.cfg.Scale,
		Height:     height * e.cfg.Scale,
		Scale:      e.cfg.Scale,
		Items:      items,
	}, nil
}

// pageContent reads the page's glyph runs, converting content-stream panics
// from the parser into an error.
func pageContent(page pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("%w: %v", ErrMalformedPage, r)
		}
	}()
	content := page.Content()
	return content.Text, nil
}

// coalesce merges raw glyph runs into word-run TextItems and flips the PDF
// bottom-up y axis to top-down page pixels. Runs sharing a baseline merge
// when close enough: a gap up to CharGapScale joins directly, up to
// WordGapScale joins with a space, anything wider starts a new item.
func (e *Extractor) coalesce(texts []pdf.Text, pageHeight float64) []models.TextItem {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // PDF y grows upward
		}
		return sorted[i].X < sorted[j].X
	})

	var items []models.TextItem
	var run *pdf.Text
	var runText strings.Builder
	runEnd := 0.0

	flush := func() {
		if run == nil {
			return
		}
		text := strings.TrimSpace(runText.String())
		if text != "" {
			items = append(items, e.toItem(*run, text, runEnd, pageHeight))
		}
		run = nil
		runText.Reset()
	}

	for i := range sorted {
		t := sorted[i]
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		if run != nil &&
			abs(t.Y-run.Y) <= size*e.cfg.LineTolerance &&
			t.X-runEnd <= size*e.cfg.WordGapScale &&
			t.X-runEnd >= -size*e.cfg.CharGapScale {
			if t.X-runEnd > size*e.cfg.CharGapScale {
				runText.WriteString(" ")
			}
			runText.WriteString(t.S)
			runEnd = t.X + t.W
			continue
		}
		flush()
		start := t
		run = &start
		runText.WriteString(t.S)
		runEnd = t.X + t.W
	}
	flush()
	return items
}

func (e *Extractor) toItem(start pdf.Text, text string, endX, pageHeight float64) models.TextItem {
	size := start.FontSize
	if size <= 0 {
		size = 10
	}
	return models.TextItem{
		Text:     text,
		X:        start.X * e.cfg.Scale,
		Y:        (pageHeight - start.Y - size) * e.cfg.Scale,
		Width:    (endX - start.X) * e.cfg.Scale,
		Height:   size * e.cfg.Scale,
		FontName: start.Font,
	}
}

// pageSize reads the MediaBox, falling back to US letter.
func pageSize(page pdf.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	if box.Kind() == pdf.Array && box.Len() == 4 {
		x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
		x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
		if x1 > x0 && y1 > y0 {
			return x1 - x0, y1 - y0
		}
	}
	return defaultPageWidth, defaultPageHeight
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"eobtools/internal/heuristics"
	"eobtools/internal/ocr"
	"eobtools/internal/pdftext"
	"eobtools/internal/segment"
	"eobtools/pkg/models"
)

// extractBlocks runs the shared front half of the pipeline: glyph extraction
// (with optional OCR fallback for scanned pages), segmentation, importance
// scoring, section classification and step numbering.
func extractBlocks(ctx context.Context, pdfPath string, pageNum int, scale float64, ocrFallback bool, cfg heuristics.Config, log zerolog.Logger) (*models.PageText, []models.TextBlock, error) {
	extractCfg := pdftext.DefaultConfig()
	extractCfg.Scale = scale
	extractor := pdftext.NewExtractor(extractCfg)

	page, err := extractor.Page(pdfPath, pageNum)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract page text: %w", err)
	}

	if len(page.Items) == 0 && ocrFallback {
		log.Info().
			Int("page", pageNum).
			Msg("No embedded text layer, falling back to OCR word boxes")
		items, ocrErr := ocrPageWords(ctx, pdfPath, pageNum, scale)
		if ocrErr != nil {
			log.Warn().
				Err(ocrErr).
				Msg("OCR fallback failed, continuing with empty page")
		} else {
			page.Items = items
		}
	}

	segmenter := segment.NewSegmenter(cfg)
	scorer := segment.NewScorer(cfg)

	blocks := segmenter.Segment(page.Items)
	for i := range blocks {
		blocks[i].Importance = scorer.Score(blocks[i].Text)
		if key, ok := segment.Classify(blocks[i].Text); ok {
			blocks[i].Section = key
		}
	}
	blocks = segment.AssignSteps(blocks)

	log.Info().
		Int("page", pageNum).
		Int("items", len(page.Items)).
		Int("blocks", len(blocks)).
		Msg("Page segmented")

	return page, blocks, nil
}

// ocrPageWords creates a Vision OCR service on demand and synthesizes text
// items for one page of a scanned PDF.
func ocrPageWords(ctx context.Context, pdfPath string, pageNum int, scale float64) ([]models.TextItem, error) {
	service, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		return nil, err
	}
	defer service.Close()

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer pdfFile.Close()

	return service.PageWords(ctx, pdfFile, pageNum, scale)
}

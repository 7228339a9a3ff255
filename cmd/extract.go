package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"eobtools/internal/heuristics"
	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract and segment page text from an EOB PDF",
	Long: `Extract the glyph-level text layer of one PDF page, group it into
semantic text blocks using spatial gap heuristics, score each block's
importance from EOB keyword patterns, and classify blocks into document
sections (header, patient info, service details, financial summary, payment
info, notes).

Scanned pages with no embedded text layer fall back to Google Cloud Vision
OCR word boxes when credentials are configured.`,
	Example: `  # Segment the first page to stdout (JSON format)
  eobtools extract claim.pdf

  # Segment page 2 and save the blocks
  eobtools extract claim.pdf --page 2 -o blocks.json

  # Skip the OCR fallback for scanned pages
  eobtools extract claim.pdf --ocr-fallback=false`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractOutput is the JSON output of the extract command.
type ExtractOutput struct {
	File        string             `json:"file"`
	Page        models.PageText    `json:"page"`
	Blocks      []models.TextBlock `json:"blocks"`
	ProcessedAt time.Time          `json:"processed_at"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Int("page", 1, "Page number to extract (1-based)")
	extractCmd.Flags().Float64("scale", 1.5, "Viewport scale for page coordinates")
	extractCmd.Flags().Bool("ocr-fallback", true, "Use Vision OCR word boxes when the page has no text layer")
	extractCmd.Flags().Bool("items", false, "Include raw text items in the output")
	extractCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	pageNum, _ := cmd.Flags().GetInt("page")
	scale, _ := cmd.Flags().GetFloat64("scale")
	ocrFallback, _ := cmd.Flags().GetBool("ocr-fallback")
	includeItems, _ := cmd.Flags().GetBool("items")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]
	if _, err := validatePDFPath(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := newCommandContext(timeoutSecs, log)
	defer cancel()

	page, blocks, err := extractBlocks(ctx, pdfPath, pageNum, scale, ocrFallback, heuristics.Default(), log)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Extraction failed")
		return err
	}

	output := ExtractOutput{
		File:        pdfPath,
		Page:        *page,
		Blocks:      blocks,
		ProcessedAt: time.Now(),
	}
	if !includeItems {
		output.Page.Items = nil
	}

	return writeJSON(output, outputPath, log)
}

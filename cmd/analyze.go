package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"eobtools/internal/docintel"
	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [pdf-file]",
	Short: "Analyze EOB document layout with Google Document AI",
	Long: `Process a PDF with a Google Document AI layout processor and bucket
the detected tables, key-value pairs and paragraphs into EOB document
sections. The output is JSON with bounding boxes in page coordinates.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI processor ID`,
	Example: `  # Analyze layout to stdout (JSON format)
  eobtools analyze claim.pdf

  # Save the layout analysis
  eobtools analyze claim.pdf -o layout.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// AnalyzeOutput is the JSON output of the analyze command.
type AnalyzeOutput struct {
	File        string        `json:"file"`
	Layout      models.Layout `json:"layout"`
	ProcessedAt time.Time     `json:"processed_at"`
	Duration    time.Duration `json:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]
	if _, err := validatePDFPath(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := newCommandContext(timeoutSecs, log)
	defer cancel()

	processor, err := createLayoutProcessor(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := processor.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close layout processor")
		}
	}()

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to open PDF file")
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer func() {
		if closeErr := pdfFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close PDF file")
		}
	}()

	startTime := time.Now()
	layout, err := processor.ProcessLayout(ctx, pdfFile)
	if err != nil {
		return handleAnalyzeError(err, log)
	}

	log.Info().
		Int("pages", len(layout.Pages)).
		Int("tables", len(layout.Tables)).
		Dur("duration", time.Since(startTime)).
		Msg("Layout analysis completed")

	output := AnalyzeOutput{
		File:        pdfPath,
		Layout:      *layout,
		ProcessedAt: time.Now(),
		Duration:    time.Since(startTime),
	}
	return writeJSON(output, outputPath, log)
}

// createLayoutProcessor creates and configures the layout processor.
func createLayoutProcessor(ctx context.Context, log zerolog.Logger) (docintel.LayoutProcessor, error) {
	processor, err := docintel.NewDocumentAILayoutProcessor(ctx)
	if err != nil {
		if errors.Is(err, docintel.ErrMissingCredentials) {
			log.Error().
				Err(err).
				Msg("Google Cloud credentials not configured")
			return nil, fmt.Errorf("missing Google Cloud credentials. Please set one of:\n"+
				"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
				"  GOOGLE_CREDENTIALS='<json-credentials>'\n"+
				"Also ensure these are set:\n"+
				"  GOOGLE_CLOUD_PROJECT=your-project-id\n"+
				"  GOOGLE_CLOUD_LOCATION=us (or eu)\n"+
				"  DOCUMENT_AI_PROCESSOR_ID=your-processor-id\n"+
				"Original error: %w", err)
		}
		if errors.Is(err, docintel.ErrInvalidConfiguration) {
			log.Error().
				Err(err).
				Msg("Document AI configuration invalid")
			return nil, fmt.Errorf("invalid Document AI configuration. Please check your .env file:\n"+
				"  GOOGLE_CLOUD_PROJECT - your Google Cloud project ID\n"+
				"  GOOGLE_CLOUD_LOCATION - processing location (us, eu, etc.)\n"+
				"  DOCUMENT_AI_PROCESSOR_ID - your Document AI processor ID\n"+
				"Original error: %w", err)
		}
		log.Error().
			Err(err).
			Msg("Failed to create layout processor")
		return nil, fmt.Errorf("failed to create layout processor: %w", err)
	}

	log.Debug().Msg("Layout processor created successfully")
	return processor, nil
}

// handleAnalyzeError provides user-friendly messages for layout failures.
func handleAnalyzeError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Layout analysis failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("layout analysis timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("layout analysis was canceled")
	case errors.Is(err, docintel.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, docintel.ErrDocumentTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, docintel.ErrProcessorNotFound):
		return fmt.Errorf("Document AI processor not found. Please check your DOCUMENT_AI_PROCESSOR_ID environment variable")
	case errors.Is(err, docintel.ErrQuotaExceeded):
		return fmt.Errorf("Document AI API quota exceeded. Please try again later")
	default:
		return fmt.Errorf("layout analysis failed: %w", err)
	}
}

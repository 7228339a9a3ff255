package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eobtools/internal/align"
	"eobtools/internal/heuristics"
	"eobtools/internal/logger"
	"eobtools/internal/narrate"
	"eobtools/internal/pdftext"
	"eobtools/internal/present"
	"eobtools/internal/tts"
	"eobtools/pkg/models"
)

var presentCmd = &cobra.Command{
	Use:   "present [pdf-file]",
	Short: "Build a self-contained HTML walkthrough of an EOB page",
	Long: `Run the full pipeline for one page of an EOB PDF: extract and segment
the text, generate a narration script, align each step to a highlight box on
the page, render a page snapshot, and write a single standalone HTML file
with the snapshot, colored highlights, step panel and playback controls.

With --audio, each step's narrative is synthesized to speech and embedded in
the file, so the walkthrough plays itself.

Required environment variables (unless --fallback-only):
  OPENAI_API_KEY - Your OpenAI API key

The page snapshot requires the pdftoppm binary (poppler-utils). Without it
the walkthrough renders highlights on a blank page background.`,
	Example: `  # Build claim-presentation.html next to the input
  eobtools present claim.pdf

  # Narrated audio embedded per step
  eobtools present claim.pdf --audio

  # No model calls at all
  eobtools present claim.pdf --fallback-only -o walkthrough.html`,
	Args: cobra.ExactArgs(1),
	RunE: runPresent,
}

func init() {
	rootCmd.AddCommand(presentCmd)

	presentCmd.Flags().StringP("output", "o", "", "Output HTML path (default: <input>-presentation.html)")
	presentCmd.Flags().Int("page", 1, "Page number to present (1-based)")
	presentCmd.Flags().Float64("scale", 1.5, "Viewport scale for coordinates and the snapshot")
	presentCmd.Flags().Bool("audio", false, "Synthesize and embed per-step speech")
	presentCmd.Flags().Bool("fallback-only", false, "Build the rule-based script without calling the model")
	presentCmd.Flags().Bool("ocr-fallback", true, "Use Vision OCR when the page has no embedded text")
	presentCmd.Flags().Int("max-steps", 8, "Maximum narration steps")
	presentCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runPresent(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("present")

	outputPath, _ := cmd.Flags().GetString("output")
	pageNum, _ := cmd.Flags().GetInt("page")
	scale, _ := cmd.Flags().GetFloat64("scale")
	withAudio, _ := cmd.Flags().GetBool("audio")
	fallbackOnly, _ := cmd.Flags().GetBool("fallback-only")
	ocrFallback, _ := cmd.Flags().GetBool("ocr-fallback")
	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]
	if _, err := validatePDFPath(pdfPath, log); err != nil {
		return err
	}
	if outputPath == "" {
		base := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath))
		outputPath = base + "-presentation.html"
	}

	ctx, cancel := newCommandContext(timeoutSecs, log)
	defer cancel()

	startTime := time.Now()
	cfg := heuristics.Default()

	page, blocks, err := extractBlocks(ctx, pdfPath, pageNum, scale, ocrFallback, cfg, log)
	if err != nil {
		return err
	}

	genConfig := narrate.DefaultGeneratorConfig()
	genConfig.FallbackImportance = cfg.ImportanceFilter
	if maxSteps > 0 {
		genConfig.MaxSteps = maxSteps
	}

	var script *models.Script
	if fallbackOnly {
		script = narrate.FallbackScript(blocks, genConfig)
	} else {
		generator, genErr := narrate.NewGenerator(genConfig)
		if genErr != nil {
			return genErr
		}
		script, err = generator.Generate(ctx, blocks)
		if err != nil {
			return err
		}
	}

	highlights := align.New(cfg).Align(script.Steps, blocks)

	snapshot, err := pdftext.Snapshot(ctx, pdfPath, pageNum, scale)
	if err != nil {
		log.Warn().
			Err(err).
			Str("file", pdfPath).
			Msg("Page snapshot failed, rendering highlights on a blank background")
		snapshot = nil
	}

	var audios []tts.StepAudio
	if withAudio {
		synth, synthErr := tts.NewSynthesizer()
		if synthErr != nil {
			return synthErr
		}
		audios = synth.SpeakSteps(ctx, script.Steps)
	}

	presentation := present.Build(script, highlights, audios, page.Width, page.Height, snapshot)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := present.Render(out, presentation); err != nil {
		return err
	}

	log.Info().
		Str("output", outputPath).
		Int("steps", len(script.Steps)).
		Bool("audio", withAudio).
		Dur("duration", time.Since(startTime)).
		Msg("Presentation written")
	fmt.Fprintf(os.Stderr, "Presentation written to %s\n", outputPath)
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eobtools/internal/heuristics"
	"eobtools/internal/logger"
	"eobtools/internal/narrate"
	"eobtools/pkg/models"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate [pdf-file|blocks.json]",
	Short: "Generate a narration script for an EOB page",
	Long: `Generate a spoken walkthrough script for one page of an EOB with an
OpenAI chat model. The input is either a PDF (extracted and segmented first)
or a blocks JSON file saved by a previous extract run. The model's reply is
validated against a JSON schema; on API failure or an invalid reply, a
rule-based script is built directly from the page's most important text
blocks.

Required environment variables (unless --fallback-only):
  OPENAI_API_KEY - Your OpenAI API key
  OPENAI_MODEL - Chat model to use (optional, default gpt-4o-mini)`,
	Example: `  # Generate a script for page 1 (JSON format)
  eobtools narrate claim.pdf

  # Narrate blocks saved by a previous extract run
  eobtools extract claim.pdf -o blocks.json
  eobtools narrate blocks.json -o script.json

  # Skip the model and build the rule-based script
  eobtools narrate claim.pdf --fallback-only`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrate,
}

// NarrateOutput is the JSON output of the narrate command.
type NarrateOutput struct {
	File        string        `json:"file"`
	Page        int           `json:"page"`
	Script      models.Script `json:"script"`
	ProcessedAt time.Time     `json:"processed_at"`
}

func init() {
	rootCmd.AddCommand(narrateCmd)

	narrateCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	narrateCmd.Flags().Int("page", 1, "Page number to narrate (1-based)")
	narrateCmd.Flags().Float64("scale", 1.5, "Viewport scale for page coordinates")
	narrateCmd.Flags().Bool("fallback-only", false, "Build the rule-based script without calling the model")
	narrateCmd.Flags().Int("max-steps", 8, "Maximum narration steps")
	narrateCmd.Flags().Int("timeout", 180, "Processing timeout in seconds")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("narrate")

	outputPath, _ := cmd.Flags().GetString("output")
	pageNum, _ := cmd.Flags().GetInt("page")
	scale, _ := cmd.Flags().GetFloat64("scale")
	fallbackOnly, _ := cmd.Flags().GetBool("fallback-only")
	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	inputPath := args[0]

	ctx, cancel := newCommandContext(timeoutSecs, log)
	defer cancel()

	cfg := heuristics.Default()

	var blocks []models.TextBlock
	if strings.HasSuffix(strings.ToLower(inputPath), ".json") {
		extracted, loadErr := loadBlocks(inputPath)
		if loadErr != nil {
			log.Error().
				Err(loadErr).
				Str("file", inputPath).
				Msg("Failed to load blocks file")
			return loadErr
		}
		blocks = extracted.Blocks
		pageNum = extracted.Page.PageNumber
	} else {
		if _, err := validatePDFPath(inputPath, log); err != nil {
			return err
		}
		var err error
		_, blocks, err = extractBlocks(ctx, inputPath, pageNum, scale, true, cfg, log)
		if err != nil {
			return err
		}
	}

	genConfig := narrate.DefaultGeneratorConfig()
	genConfig.FallbackImportance = cfg.ImportanceFilter
	if maxSteps > 0 {
		genConfig.MaxSteps = maxSteps
	}

	var script *models.Script
	if fallbackOnly {
		script = narrate.FallbackScript(blocks, genConfig)
		log.Info().
			Int("steps", len(script.Steps)).
			Msg("Rule-based script generated")
	} else {
		generator, genErr := narrate.NewGenerator(genConfig)
		if genErr != nil {
			return genErr
		}
		var err error
		script, err = generator.Generate(ctx, blocks)
		if err != nil {
			log.Error().
				Err(err).
				Str("file", inputPath).
				Msg("Narration failed")
			return err
		}
	}

	output := NarrateOutput{
		File:        inputPath,
		Page:        pageNum,
		Script:      *script,
		ProcessedAt: time.Now(),
	}
	return writeJSON(output, outputPath, log)
}

// loadBlocks reads a blocks JSON file written by the extract command.
func loadBlocks(path string) (*ExtractOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocks file: %w", err)
	}
	var out ExtractOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode blocks file: %w", err)
	}
	if len(out.Blocks) == 0 {
		return nil, fmt.Errorf("blocks file %s contains no text blocks", path)
	}
	return &out, nil
}

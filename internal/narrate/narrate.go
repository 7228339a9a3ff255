// Package narrate generates walkthrough scripts for EOB pages.
//
// The primary path asks an OpenAI chat model for a structured script and
// validates the reply against a JSON schema. When the API is unavailable or
// the reply fails validation, a rule-based fallback builds the script
// directly from the page's important text blocks, so narration always
// succeeds for a non-empty page.
package narrate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"eobtools/internal/logger"
	"eobtools/internal/segment"
	"eobtools/pkg/models"
)

// GeneratorConfig configures script generation.
type GeneratorConfig struct {
	Model              string  // chat model, e.g. gpt-4o-mini
	Temperature        float32 // low values keep the script close to the page text
	MaxSteps           int     // cap on narration steps
	StepDuration       float64 // default per-step duration in seconds
	FallbackImportance float64 // minimum block importance for the fallback script
}

// DefaultGeneratorConfig returns generation defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Model:              "gpt-4o-mini",
		Temperature:        0.2,
		MaxSteps:           8,
		StepDuration:       8,
		FallbackImportance: 0.3,
	}
}

// Generator produces narration scripts from text blocks.
type Generator struct {
	client *openai.Client
	config GeneratorConfig
	log    zerolog.Logger
}

// NewGenerator creates a Generator with the OpenAI client from the
// environment. Requires OPENAI_API_KEY; OPENAI_MODEL overrides the configured
// model.
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	const op = "NewGenerator"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY environment variable is required", op)
	}

	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.Model = model
	}

	return NewGeneratorWithClient(openai.NewClient(apiKey), config), nil
}

// NewGeneratorWithClient creates a Generator with explicit dependencies (for
// testing).
func NewGeneratorWithClient(client *openai.Client, config GeneratorConfig) *Generator {
	return &Generator{
		client: client,
		config: config,
		log:    logger.WithComponent("narrate"),
	}
}

// Generate produces a script for the given blocks. API or validation
// failures degrade to the rule-based fallback; only an empty block list is an
// error.
func (g *Generator) Generate(ctx context.Context, blocks []models.TextBlock) (*models.Script, error) {
	const op = "Generate"

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: no text blocks to narrate", op)
	}

	script, err := g.generateWithModel(ctx, blocks)
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("model", g.config.Model).
			Msg("Model narration failed, using rule-based fallback script")
		return FallbackScript(blocks, g.config), nil
	}

	g.log.Info().
		Str("title", script.Title).
		Int("steps", len(script.Steps)).
		Msg("Narration script generated")
	return script, nil
}

func (g *Generator) generateWithModel(ctx context.Context, blocks []models.TextBlock) (*models.Script, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: g.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: g.buildPrompt(blocks),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}

	return ParseScript(resp.Choices[0].Message.Content, g.config.StepDuration)
}

const systemPrompt = `You are a patient advocate explaining an Explanation of Benefits (EOB) insurance document to someone seeing it for the first time. You produce narration scripts as JSON objects with this shape:
{"title": string, "introduction": string, "steps": [{"stepNumber": int, "title": string, "narrative": string, "highlightText": string, "duration": number}], "conclusion": string}
Each step's highlightText must quote text that appears verbatim on the page so it can be located and highlighted. Durations are seconds of speech. Reply with the JSON object only.`

// buildPrompt lists the page's text blocks, most important first, as the
// material the model may narrate and quote from.
func (g *Generator) buildPrompt(blocks []models.TextBlock) string {
	ordered := segment.AssignSteps(blocks)
	limit := len(ordered)
	if g.config.MaxSteps > 0 && limit > g.config.MaxSteps*3 {
		limit = g.config.MaxSteps * 3
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a narration script with at most %d steps for an EOB page containing these text blocks (most important first):\n\n", g.config.MaxSteps)
	for _, block := range ordered[:limit] {
		section := "unclassified"
		if block.Section != "" {
			section = string(block.Section)
		}
		fmt.Fprintf(&b, "- [%s, importance %.2f] %s\n", section, block.Importance, block.Text)
	}
	return b.String()
}

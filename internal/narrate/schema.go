package narrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"eobtools/pkg/models"
)

// scriptSchema is the contract the model's JSON reply must satisfy. Anything
// that fails validation is treated as an API failure and routed to the
// rule-based fallback.
const scriptSchema = `{
  "type": "object",
  "required": ["title", "steps"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "introduction": {"type": "string"},
    "conclusion": {"type": "string"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "narrative", "highlightText"],
        "properties": {
          "stepNumber": {"type": "integer", "minimum": 0},
          "title": {"type": "string", "minLength": 1},
          "narrative": {"type": "string", "minLength": 1},
          "highlightText": {"type": "string"},
          "duration": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

var compiledScriptSchema = jsonschema.MustCompileString("script.json", scriptSchema)

// ParseScript extracts, validates and decodes a narration script from a raw
// model reply. Models occasionally wrap the JSON object in prose despite the
// JSON response format, so the reply is first clipped to its outermost {...}
// block. Step numbers are renumbered 1..N and non-positive durations replaced
// with the default.
func ParseScript(raw string, defaultDuration float64) (*models.Script, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	if err := compiledScriptSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("model reply does not match script schema: %w", err)
	}

	var script models.Script
	if err := json.Unmarshal([]byte(payload), &script); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	for i := range script.Steps {
		script.Steps[i].StepNumber = i + 1
		if script.Steps[i].Duration <= 0 {
			script.Steps[i].Duration = defaultDuration
		}
	}
	return &script, nil
}

// extractJSON clips raw to its outermost {...} block, or returns "" when no
// braces are present.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

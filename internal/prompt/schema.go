package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icelab/icebreaker/internal/domain"
	"github.com/icelab/icebreaker/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// The schema is the single source of truth for the output contract:
// format instructions are rendered from it and responses are validated
// against it, so the two cannot drift.
//
//go:embed schemas/summary_schema.json
var summarySchema []byte

// FormatInstructions renders machine-readable output instructions from
// the embedded schema.
func FormatInstructions() string {
	return fmt.Sprintf(`The output must be a single JSON object that conforms to the JSON Schema below.
Do not include any text outside the JSON object.

%s`, strings.TrimSpace(string(summarySchema)))
}

// ParseSummary coerces raw model output into a validated Summary.
// Parsing is strict: any deviation from the schema is a SchemaError,
// with no automatic re-prompt.
func ParseSummary(raw string) (*domain.Summary, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, errors.NewSchemaError("model returned empty output", nil, nil)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(summarySchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, errors.NewSchemaError("model output is not valid JSON", nil, err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, violation := range result.Errors() {
			violations = append(violations, violation.String())
		}
		return nil, errors.NewSchemaError("model output does not match the summary schema", violations, nil)
	}

	var summary domain.Summary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, errors.NewSchemaError("model output could not be decoded", nil, err)
	}
	if summary.Facts == nil {
		summary.Facts = []string{}
	}

	return &summary, nil
}

// stripFences removes a wrapping markdown code fence, which models emit
// even when asked for bare JSON.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

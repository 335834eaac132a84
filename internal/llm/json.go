// internal/llm/json.go
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrMalformedResponse = errors.New("LLM_MALFORMED_RESPONSE")

// ExtractJSON strips markdown code fences that models wrap around JSON
// payloads even when asked not to.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	return strings.TrimSpace(text)
}

// DecodeValidated extracts the JSON payload from a model response, checks it
// against a JSON schema and unmarshals it into dest. Any failure is reported
// as ErrMalformedResponse so callers can apply their degradation policy
// uniformly.
func DecodeValidated(raw, schema string, dest interface{}) error {
	payload := ExtractJSON(raw)
	if payload == "" {
		return fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(details, "; "))
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

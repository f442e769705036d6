package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// stripFences removes the markdown code fences models wrap JSON payloads in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// parseResponse decodes a raw completion into T. A payload that fails to
// unmarshal is run through jsonrepair once and retried, which recovers the
// common model artifacts (single quotes, trailing commas).
func parseResponse[T any](raw string) (T, error) {
	var result T

	content := stripFences(raw)
	err := json.Unmarshal([]byte(content), &result)
	if err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return result, fmt.Errorf("failed to parse response as %T: %w (repair error: %v)", result, err, repairErr)
		}

		err = json.Unmarshal([]byte(repaired), &result)
		if err != nil {
			return result, fmt.Errorf("failed to parse repaired response as %T: %w", result, err)
		}
	}

	return result, nil
}

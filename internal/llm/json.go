package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a single JSON object out of free-form model output and
// unmarshals it into v. Models frequently wrap the object in markdown code
// fences or surrounding prose; the extraction strategy is: strip code-fence
// markers, locate the first '{' and the last '}', and parse that substring.
func ExtractJSON(text string, v any) error {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in response")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse JSON from response: %w", err)
	}
	return nil
}

package chunk

import "strings"

// Normalize collapses all whitespace runs to single spaces and strips literal
// bullet characters. It is applied to text before chunking and before every
// embedding call so that cache keys are stable across formatting differences.
func Normalize(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	return strings.ReplaceAll(collapsed, "•", "")
}

package generativeAI

import (
	"fmt"
	"strings"
)

// StripCodeFences removes markdown code-fence markers the model sometimes
// wraps around JSON even when asked not to.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ExtractJSONArray returns the first top-level JSON array in text, spanning
// from the first '[' to the last ']'.
func ExtractJSONArray(text string) (string, error) {
	text = StripCodeFences(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array found in model output")
	}
	return text[start : end+1], nil
}

// ExtractJSONObject returns the first top-level JSON object in text, spanning
// from the first '{' to the last '}'.
func ExtractJSONObject(text string) (string, error) {
	text = StripCodeFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in model output")
	}
	return text[start : end+1], nil
}

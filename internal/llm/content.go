package llm

import (
	"fmt"
	"strings"
)

// Flatten normalizes arbitrary message content into plain text.
//
// Providers and tool payloads sometimes deliver content as a list of typed
// parts instead of a single string. Flatten accepts a string, a list of
// strings, or a list of part objects carrying a "text" field, and joins
// everything into one string. Anything unrecognized is formatted with %v so
// the result is never lost.
func Flatten(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "")
	case []any:
		var b strings.Builder
		for _, part := range v {
			b.WriteString(flattenPart(part))
		}
		return b.String()
	case map[string]any:
		return flattenPart(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// flattenPart extracts the text from a single content part.
func flattenPart(part any) string {
	switch p := part.(type) {
	case string:
		return p
	case map[string]any:
		if text, ok := p["text"].(string); ok {
			return text
		}
		if inner, ok := p["content"]; ok {
			return Flatten(inner)
		}
		return ""
	default:
		return fmt.Sprintf("%v", p)
	}
}

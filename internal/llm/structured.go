package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CompleteStructured runs a completion that must produce a JSON object and
// decodes it into T. The request is forced into JSON-only mode; markdown
// code fences around the object are tolerated since some models emit them
// anyway.
func CompleteStructured[T any](ctx context.Context, c Client, req CompletionRequest) (T, error) {
	var result T

	req.JSONOnly = true
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return result, err
	}

	payload := StripFences(resp.Message.Content)
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return result, nil
}

// StripFences removes a surrounding markdown code fence from a completion,
// with or without a language tag.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "markdown", ...).
		firstLine := strings.TrimSpace(trimmed[:idx])
		if !strings.ContainsAny(firstLine, "{}[]") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

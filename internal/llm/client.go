// Package llm provides the chat completion and embedding clients used by the
// conversation flows.
//
// The package exposes small provider-agnostic interfaces (Client, Embedder)
// plus an OpenAI-backed implementation. Flows depend on the interfaces only,
// so tests script conversations with MockClient instead of hitting the API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID correlates the call with its tool result message.
	ID string
	// Name is the tool being invoked.
	Name string
	// Arguments is the JSON-encoded argument object.
	Arguments string
}

// Message is a single entry in a conversation transcript.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall

	// ToolCallID links a tool-role message back to the call it answers.
	ToolCallID string
}

// Tool describes a function the model may call.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object describing the arguments.
	Parameters json.RawMessage
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	// SystemPrompt is prepended as the system message when non-empty.
	SystemPrompt string
	// Messages is the conversation transcript, oldest first.
	Messages []Message
	// Model overrides the client's default model when non-empty.
	Model string
	// Temperature controls sampling randomness.
	Temperature float32
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
	// Tools the model may call during this completion.
	Tools []Tool
	// JSONOnly forces the model to emit a single JSON object.
	JSONOnly bool
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// CompletionResponse is the model's reply to a CompletionRequest.
type CompletionResponse struct {
	Message      Message
	FinishReason string
	Model        string
	Usage        Usage
}

// HasToolCalls reports whether the model requested tool execution instead of
// (or in addition to) answering.
func (r *CompletionResponse) HasToolCalls() bool {
	return len(r.Message.ToolCalls) > 0
}

// Client generates chat completions.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Embedder converts texts into dense vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Sentinel errors for completion handling.
var (
	// ErrEmptyCompletion indicates the provider returned no choices.
	ErrEmptyCompletion = errors.New("llm: empty completion")

	// ErrInvalidJSON indicates a structured completion did not parse.
	ErrInvalidJSON = errors.New("llm: completion is not valid JSON")
)

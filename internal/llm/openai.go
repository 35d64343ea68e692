package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Default models used when the caller does not override them.
const (
	DefaultChatModel      = "gpt-4o-mini"
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// OpenAIClient implements Client and Embedder against the OpenAI API.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel string
	retry          RetryConfig
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithModel sets the default chat model.
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg RetryConfig) OpenAIOption {
	return func(c *OpenAIClient) {
		if cfg.MaxAttempts > 0 {
			c.retry = cfg
		}
	}
}

// WithBaseURL points the client at an alternate API endpoint, for proxies
// and OpenAI-compatible local servers.
func WithBaseURL(apiKey, baseURL string) OpenAIOption {
	return func(c *OpenAIClient) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		c.client = openai.NewClientWithConfig(cfg)
	}
}

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}

	c := &OpenAIClient{
		client:         openai.NewClient(apiKey),
		model:          DefaultChatModel,
		embeddingModel: DefaultEmbeddingModel,
		retry:          DefaultRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiReq := c.toAPIRequest(req)

	resp, err := withRetry(ctx, c.retry, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, apiReq)
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	return &CompletionResponse{
		Message:      fromAPIMessage(choice.Message),
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// Embed implements Embedder.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := withRetry(ctx, c.retry, func(ctx context.Context) (openai.EmbeddingResponse, error) {
		return c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// toAPIRequest maps a CompletionRequest onto the provider's request type.
func (c *OpenAIClient) toAPIRequest(req CompletionRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, toAPIMessage(m))
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	for _, t := range req.Tools {
		apiReq.Tools = append(apiReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	if req.JSONOnly {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return apiReq
}

// toAPIMessage maps one transcript message to the provider type.
func toAPIMessage(m Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return msg
}

// fromAPIMessage maps a provider message back to the transcript type.
func fromAPIMessage(m openai.ChatCompletionMessage) Message {
	msg := Message{
		Role:       Role(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}

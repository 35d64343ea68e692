package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Responses are returned in the
// order they were queued; requests are recorded for assertions.
type MockClient struct {
	mu        sync.Mutex
	responses []*CompletionResponse
	errs      []error
	requests  []CompletionRequest
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty scripted client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// QueueText queues a plain assistant text reply.
func (m *MockClient) QueueText(content string) *MockClient {
	return m.QueueResponse(&CompletionResponse{
		Message:      Message{Role: RoleAssistant, Content: content},
		FinishReason: "stop",
	})
}

// QueueToolCall queues an assistant reply that invokes a tool.
func (m *MockClient) QueueToolCall(id, name, arguments string) *MockClient {
	return m.QueueResponse(&CompletionResponse{
		Message: Message{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{
				{ID: id, Name: name, Arguments: arguments},
			},
		},
		FinishReason: "tool_calls",
	})
}

// QueueResponse queues a full response.
func (m *MockClient) QueueResponse(resp *CompletionResponse) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	m.errs = append(m.errs, nil)
	return m
}

// QueueError queues a failure.
func (m *MockClient) QueueError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errs = append(m.errs, err)
	return m
}

// Complete implements Client. Once the script runs out, it returns
// ErrEmptyCompletion.
func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.responses) == 0 {
		return nil, ErrEmptyCompletion
	}

	resp, err := m.responses[0], m.errs[0]
	m.responses = m.responses[1:]
	m.errs = m.errs[1:]
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Requests returns a copy of all requests seen so far.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// MockEmbedder returns fixed-size deterministic vectors for tests.
type MockEmbedder struct {
	// Dim is the vector dimensionality. Defaults to 4 when zero.
	Dim int
}

var _ Embedder = (*MockEmbedder)(nil)

// Embed implements Embedder. Each vector encodes the text length so
// different texts produce different vectors.
func (m *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dim := m.Dim
	if dim <= 0 {
		dim = 4
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(len(text)%(j+2)) + float32(i)
		}
		vectors[i] = v
	}
	return vectors, nil
}

package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
)

// Payload keys used by the ingestion pipeline.
const (
	payloadTextKey   = "texto"
	payloadSourceKey = "fonte"
)

// QdrantSearcher queries a Qdrant collection over its REST API.
// Query texts are embedded, normalized, and matched against the collection
// by cosine similarity.
type QdrantSearcher struct {
	baseURL    string
	apiKey     string
	collection string
	embedder   llm.Embedder
	httpClient *http.Client
}

var _ Searcher = (*QdrantSearcher)(nil)

// QdrantOption configures a QdrantSearcher.
type QdrantOption func(*QdrantSearcher)

// WithAPIKey sets the api-key header for Qdrant Cloud.
func WithAPIKey(key string) QdrantOption {
	return func(s *QdrantSearcher) {
		s.apiKey = key
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) QdrantOption {
	return func(s *QdrantSearcher) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// NewQdrantSearcher creates a searcher over one Qdrant collection.
func NewQdrantSearcher(baseURL, collection string, embedder llm.Embedder, opts ...QdrantOption) (*QdrantSearcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("retrieval: Qdrant URL is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("retrieval: collection name is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("retrieval: embedder is required")
	}

	s := &QdrantSearcher{
		baseURL:    baseURL,
		collection: collection,
		embedder:   embedder,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// searchRequest is the Qdrant points/search request body.
type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

// searchResponse is the Qdrant points/search response body.
type searchResponse struct {
	Result []struct {
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
	Status string `json:"status"`
}

// Search implements Searcher.
func (s *QdrantSearcher) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}

	body, err := json.Marshal(searchRequest{
		Vector:      normalize(vectors[0]),
		Limit:       limit,
		WithPayload: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s: unexpected status %d", s.collection, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Result))
	for _, hit := range parsed.Result {
		docs = append(docs, Document{
			Text:   llm.Flatten(hit.Payload[payloadTextKey]),
			Source: llm.Flatten(hit.Payload[payloadSourceKey]),
			Score:  hit.Score,
		})
	}
	return docs, nil
}

// normalize scales a vector to unit length. A zero vector is returned
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
)

func TestFormatDocuments_Bundle(t *testing.T) {
	docs := []Document{
		{Text: "Fogachos são comuns na perimenopausa.", Source: "https://example.org/fogachos"},
		{Text: "A terapia hormonal deve ser individualizada.", Source: "diretriz-2023.pdf"},
	}

	got := FormatDocuments("sintomas da menopausa", docs)

	assert.Contains(t, got, "📚 DOCUMENTOS RECUPERADOS PARA: 'sintomas da menopausa'")
	assert.Contains(t, got, "📄 DOCUMENTO 1:")
	assert.Contains(t, got, "📄 DOCUMENTO 2:")
	assert.Contains(t, got, "🔗 FONTE: https://example.org/fogachos")
	assert.Contains(t, got, "🔗 FONTE: diretriz-2023.pdf")
	assert.Contains(t, got, "Sempre cite a fonte")
	assert.Less(t, strings.Index(got, "DOCUMENTO 1"), strings.Index(got, "DOCUMENTO 2"))
}

func TestFormatDocuments_Empty(t *testing.T) {
	assert.Equal(t, NoDocumentsMessage, FormatDocuments("qualquer", nil))
}

func TestFormatDocuments_MissingPayload(t *testing.T) {
	got := FormatDocuments("q", []Document{{Text: "texto sem fonte"}, {Source: "fonte sem texto"}})
	assert.Contains(t, got, "🔗 FONTE: [Fonte não disponível]")
	assert.Contains(t, got, "[Texto não disponível]")
}

// fakeQdrant runs an httptest server speaking the points/search protocol.
func fakeQdrant(t *testing.T, hits []map[string]any) (*httptest.Server, *[]searchRequest) {
	t.Helper()

	var requests []searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/Tide/points/search", r.URL.Path)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		resp := map[string]any{"status": "ok", "result": hits}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestQdrantSearcher_Search(t *testing.T) {
	srv, requests := fakeQdrant(t, []map[string]any{
		{"score": 0.91, "payload": map[string]any{"texto": "doc um", "fonte": "a.md"}},
		{"score": 0.77, "payload": map[string]any{"texto": "doc dois", "fonte": "b.md"}},
	})

	searcher, err := NewQdrantSearcher(srv.URL, "Tide", &llm.MockEmbedder{Dim: 3})
	require.NoError(t, err)

	docs, err := searcher.Search(context.Background(), "sintomas da menopausa", 4)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc um", docs[0].Text)
	assert.Equal(t, "a.md", docs[0].Source)
	assert.InDelta(t, 0.91, docs[0].Score, 0.001)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, 4, req.Limit)
	assert.True(t, req.WithPayload)

	// Query vectors are normalized before the search.
	var sum float64
	for _, x := range req.Vector {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 0.001)
}

func TestQdrantSearcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	searcher, err := NewQdrantSearcher(srv.URL, "Tide", &llm.MockEmbedder{})
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "qualquer", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestQdrantSearcher_Validation(t *testing.T) {
	_, err := NewQdrantSearcher("", "Tide", &llm.MockEmbedder{})
	assert.Error(t, err)

	_, err = NewQdrantSearcher("http://localhost:6333", "", &llm.MockEmbedder{})
	assert.Error(t, err)

	_, err = NewQdrantSearcher("http://localhost:6333", "Tide", nil)
	assert.Error(t, err)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, normalize(v))
}

// scriptedSearcher returns canned documents keyed by query.
// Searches run concurrently, so call tracking is locked.
type scriptedSearcher struct {
	mu      sync.Mutex
	byQuery map[string][]Document
	err     error
	calls   []string
}

func (s *scriptedSearcher) Search(_ context.Context, query string, _ int) ([]Document, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.byQuery[query], nil
}

func TestMultiQuery_SubmissionOrderAndDedup(t *testing.T) {
	inner := &scriptedSearcher{byQuery: map[string][]Document{
		"original":   {{Text: "A"}, {Text: "B"}},
		"variante 1": {{Text: "B"}, {Text: "C"}},
		"variante 2": {{Text: "D"}},
	}}
	client := llm.NewMockClient().QueueText("variante 1\nvariante 2")

	m := NewMultiQuerySearcher(inner, client, 2)
	docs, err := m.Search(context.Background(), "original", 4)

	require.NoError(t, err)
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	// Original query's results first, variants after, duplicates dropped.
	assert.Equal(t, []string{"A", "B", "C", "D"}, texts)
}

func TestMultiQuery_ExpansionFailureFallsBack(t *testing.T) {
	inner := &scriptedSearcher{byQuery: map[string][]Document{
		"original": {{Text: "A"}},
	}}
	client := llm.NewMockClient().QueueError(errors.New("rate limited"))

	m := NewMultiQuerySearcher(inner, client, 3)
	docs, err := m.Search(context.Background(), "original", 4)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0].Text)
}

func TestMultiQuery_OriginalFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	inner := &scriptedSearcher{err: boom}
	client := llm.NewMockClient().QueueText("variante")

	m := NewMultiQuerySearcher(inner, client, 1)
	_, err := m.Search(context.Background(), "original", 4)

	assert.ErrorIs(t, err, boom)
}

func TestMultiQuery_DisabledExpansion(t *testing.T) {
	inner := &scriptedSearcher{byQuery: map[string][]Document{
		"original": {{Text: "A"}},
	}}

	m := NewMultiQuerySearcher(inner, nil, 0)
	docs, err := m.Search(context.Background(), "original", 4)

	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, []string{"original"}, inner.calls)
}

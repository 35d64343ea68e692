package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
)

// variantsPrompt asks the model for alternative phrasings of the query.
// One variant per line, nothing else.
const variantsPrompt = `Você é um assistente que gera variações de uma pergunta para melhorar a busca em uma base de dados vetorial sobre menopausa.

Gere %d variações diferentes da pergunta abaixo, mantendo o significado original. Responda apenas com as variações, uma por linha, sem numeração.

Pergunta: %s`

// MultiQuerySearcher expands a query into LLM-generated variants and fans
// the searches out concurrently. Results are concatenated in submission
// order (original query first) and de-duplicated by text, so output order
// is deterministic regardless of which search finishes first.
type MultiQuerySearcher struct {
	inner    Searcher
	client   llm.Client
	variants int
}

var _ Searcher = (*MultiQuerySearcher)(nil)

// NewMultiQuerySearcher wraps a searcher with query expansion.
// variants is the number of extra phrasings requested from the model;
// values below 1 disable expansion.
func NewMultiQuerySearcher(inner Searcher, client llm.Client, variants int) *MultiQuerySearcher {
	return &MultiQuerySearcher{
		inner:    inner,
		client:   client,
		variants: variants,
	}
}

// Search implements Searcher.
func (m *MultiQuerySearcher) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	queries := append([]string{query}, m.expand(ctx, query)...)

	type result struct {
		docs []Document
		err  error
	}

	results := make([]result, len(queries))
	done := make(chan int, len(queries))

	for i, q := range queries {
		go func(i int, q string) {
			docs, err := m.inner.Search(ctx, q, limit)
			results[i] = result{docs: docs, err: err}
			done <- i
		}(i, q)
	}
	for range queries {
		<-done
	}

	// The original query's failure is the caller's failure; a variant
	// failing only narrows the result set.
	if results[0].err != nil {
		return nil, results[0].err
	}

	seen := make(map[string]bool)
	var docs []Document
	for _, r := range results {
		if r.err != nil {
			continue
		}
		for _, doc := range r.docs {
			if doc.Text == "" || seen[doc.Text] {
				continue
			}
			seen[doc.Text] = true
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// expand asks the model for alternative phrasings. Expansion is best
// effort: on any failure the original query stands alone.
func (m *MultiQuerySearcher) expand(ctx context.Context, query string) []string {
	if m.client == nil || m.variants < 1 {
		return nil
	}

	resp, err := m.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(variantsPrompt, m.variants, query)},
		},
	})
	if err != nil {
		return nil
	}

	var variants []string
	for _, line := range strings.Split(resp.Message.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == query {
			continue
		}
		variants = append(variants, line)
		if len(variants) == m.variants {
			break
		}
	}
	return variants
}

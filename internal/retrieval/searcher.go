// Package retrieval provides semantic document search over the knowledge
// base backing the chat flow's answers.
package retrieval

import (
	"context"
)

// Document is a retrieved knowledge base entry.
type Document struct {
	// Text is the document content.
	Text string
	// Source identifies where the content came from (URL or file name).
	Source string
	// Score is the similarity score assigned by the vector store.
	Score float32
}

// Searcher finds the documents most similar to a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

package retrieval

import (
	"fmt"
	"strings"
)

// User-facing retrieval messages, in the product's language.
const (
	// NoDocumentsMessage is returned when the search yields nothing.
	NoDocumentsMessage = "⚠️ Nenhum documento relevante encontrado na base de dados."

	// SearchErrorMessage is returned when the search itself fails.
	SearchErrorMessage = "Desculpe, ocorreu um erro técnico ao buscar os documentos."
)

// Placeholders for documents with incomplete payloads.
const (
	missingText   = "[Texto não disponível]"
	missingSource = "[Fonte não disponível]"
)

// FormatDocuments renders retrieved documents as the bundle the chat model
// receives as tool output. An empty set yields NoDocumentsMessage.
func FormatDocuments(query string, docs []Document) string {
	if len(docs) == 0 {
		return NoDocumentsMessage
	}

	heavy := strings.Repeat("=", 80)
	light := strings.Repeat("-", 80)

	entries := make([]string, 0, len(docs))
	for i, doc := range docs {
		text := strings.TrimSpace(doc.Text)
		if text == "" {
			text = missingText
		}
		source := strings.TrimSpace(doc.Source)
		if source == "" {
			source = missingSource
		}
		entries = append(entries, fmt.Sprintf(
			"📄 DOCUMENTO %d:\n%s\n\n🔗 FONTE: %s\n%s",
			i+1, text, source, light,
		))
	}

	return fmt.Sprintf(
		"\n%s\n📚 DOCUMENTOS RECUPERADOS PARA: '%s'\n%s\n%s\n%s\n⚠️ IMPORTANTE: Sempre cite a fonte (link) das informações utilizadas.\n",
		heavy, query, heavy, strings.Join(entries, "\n"), heavy,
	)
}

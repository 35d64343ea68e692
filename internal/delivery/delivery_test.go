package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGuideHTML_ConvertsMarkdown(t *testing.T) {
	md := "# Guia da Consulta\n\n## Sintomas\n\n- fogachos\n- insônia\n\n**Importante:** leve este guia."

	got, err := RenderGuideHTML(md, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Contains(t, got, "<h1")
	assert.Contains(t, got, "Guia da Consulta")
	assert.Contains(t, got, "<h2")
	assert.Contains(t, got, "<li>fogachos</li>")
	assert.Contains(t, got, "<strong>Importante:</strong>")
	assert.Contains(t, got, "Documento gerado em 14/03/2025 às 09:30")
	assert.Contains(t, got, "color: #d946a6")
}

func TestRenderGuideHTML_EscapesRawHTML(t *testing.T) {
	got, err := RenderGuideHTML("texto <script>alert(1)</script>", time.Now())

	require.NoError(t, err)
	assert.NotContains(t, got, "<script>alert(1)</script>")
}

func TestRenderEmailBody_GreetsByName(t *testing.T) {
	got, err := renderEmailBody("Maria")

	require.NoError(t, err)
	assert.Contains(t, got, "Olá Maria,")
	assert.Contains(t, got, "em anexo")
}

func TestNewSMTPSender_Defaults(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com", From: "tide@example.org"})

	require.NoError(t, err)
	assert.Equal(t, 587, s.cfg.Port)
}

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{From: "tide@example.org"})
	assert.Error(t, err)

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com"})
	assert.Error(t, err)
}

func TestSendGuide_RejectsIncompleteGuides(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.gmail.com", From: "tide@example.org"})
	require.NoError(t, err)

	err = s.SendGuide(t.Context(), Guide{Name: "Maria", Markdown: "# Guia"})
	assert.Error(t, err) // missing email

	err = s.SendGuide(t.Context(), Guide{Name: "Maria", Email: "maria@example.org", Markdown: "   "})
	assert.Error(t, err) // empty guide
}

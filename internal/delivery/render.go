// Package delivery renders the personalized guide and sends it to the
// user's email address.
package delivery

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown converts the guide body. Hard wraps keep the model's single
// newlines visible, matching how the guide text is authored.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// pageTemplate wraps the converted guide in a printable styled page.
var pageTemplate = htmltemplate.Must(htmltemplate.New("guide").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            size: A4;
            margin: 2cm;
        }
        body {
            font-family: 'Arial', 'Helvetica', sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 100%;
        }
        h1 {
            color: #d946a6;
            border-bottom: 3px solid #d946a6;
            padding-bottom: 10px;
            margin-top: 20px;
        }
        h2 {
            color: #e879b9;
            margin-top: 25px;
            margin-bottom: 15px;
        }
        h3 {
            color: #555;
        }
        ul, ol {
            margin-left: 20px;
        }
        li {
            margin-bottom: 8px;
        }
        p {
            margin-bottom: 12px;
        }
        strong {
            color: #222;
        }
        hr {
            border: none;
            border-top: 1px solid #ddd;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            padding-top: 10px;
            border-top: 1px solid #ddd;
            font-size: 0.9em;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    {{.Body}}
    <div class="footer">
        <p>Documento gerado em {{.GeneratedAt}}</p>
    </div>
</body>
</html>
`))

// bodyTemplate is the email body accompanying the attached guide.
var bodyTemplate = htmltemplate.Must(htmltemplate.New("body").Parse(`<p>Olá {{.Name}},</p>
<p>Seu guia personalizado para a consulta está em anexo. Leve-o com você e compartilhe com a sua médica ou médico.</p>
<p>Com carinho,<br>Tide 🌸</p>
`))

// RenderGuideHTML converts the guide's markdown into a complete styled HTML
// document. The footer records the generation moment.
func RenderGuideHTML(guideMarkdown string, generatedAt time.Time) (string, error) {
	var converted bytes.Buffer
	if err := markdown.Convert([]byte(guideMarkdown), &converted); err != nil {
		return "", fmt.Errorf("convert guide markdown: %w", err)
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Body        htmltemplate.HTML
		GeneratedAt string
	}{
		Body:        htmltemplate.HTML(converted.String()),
		GeneratedAt: generatedAt.Format("02/01/2006 às 15:04"),
	})
	if err != nil {
		return "", fmt.Errorf("render guide page: %w", err)
	}
	return page.String(), nil
}

// renderEmailBody produces the HTML email body greeting the user by name.
func renderEmailBody(name string) (string, error) {
	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return body.String(), nil
}

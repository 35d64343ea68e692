package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/delivery"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/retrieval"
)

// Tool names exposed to the chat model.
const (
	toolRetrieve  = "retrieve_information"
	toolSendGuide = "send_guide"
)

// retrievalLimit is how many documents each retrieval call returns.
const retrievalLimit = 4

// Corrective tool results for send_guide when the preconditions fail. The
// model relays these to the user in its own words.
const (
	sendNoGuideResult = "O usuário ainda não gerou o guia. Explique que ele precisa gerar o guia primeiro e pergunte se ele quer gerar o guia agora."
	sendNoEmailResult = "Não encontrei o email do usuário. Solicite o email antes de enviar."
)

// chatTools returns the tool definitions offered to the chat model.
func chatTools() []llm.Tool {
	return []llm.Tool{
		{
			Name: toolRetrieve,
			Description: "Recupera documentos informativos relevantes sobre menopausa e saúde da mulher " +
				"a partir de uma consulta. Use sempre que precisar fundamentar uma resposta.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Consulta de busca formulada com base na pergunta do usuário"
					}
				},
				"required": ["query"]
			}`),
		},
		{
			Name: toolSendGuide,
			Description: "Envia o guia personalizado já gerado para o email do usuário armazenado no sistema. " +
				"Não requer parâmetros.",
			Parameters: json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	}
}

// toolExecutor runs tool calls issued by the chat model against the real
// services.
type toolExecutor struct {
	searcher retrieval.Searcher
	sender   delivery.Sender
}

// execute dispatches a single tool call and returns the tool result message
// content. Failures are reported back to the model as text, never as errors,
// so the conversation can continue.
func (e *toolExecutor) execute(ctx context.Context, call llm.ToolCall, data UserData) string {
	switch call.Name {
	case toolRetrieve:
		return e.retrieve(ctx, call.Arguments)
	case toolSendGuide:
		return e.sendGuide(ctx, data)
	default:
		return fmt.Sprintf("Ferramenta desconhecida: %s", call.Name)
	}
}

func (e *toolExecutor) retrieve(ctx context.Context, arguments string) string {
	if e.searcher == nil {
		return retrieval.SearchErrorMessage
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || strings.TrimSpace(args.Query) == "" {
		return retrieval.SearchErrorMessage
	}

	docs, err := e.searcher.Search(ctx, args.Query, retrievalLimit)
	if err != nil {
		return retrieval.SearchErrorMessage
	}
	return retrieval.FormatDocuments(args.Query, docs)
}

func (e *toolExecutor) sendGuide(ctx context.Context, data UserData) string {
	if strings.TrimSpace(data.Guide) == "" {
		return sendNoGuideResult
	}
	email := strings.TrimSpace(data.Email)
	if email == "" || email == NotInformed {
		return sendNoEmailResult
	}
	if e.sender == nil {
		return "❌ Desculpe, houve um erro ao enviar o email: serviço de email indisponível. Por favor, tente novamente mais tarde ou verifique se o email fornecido está correto."
	}

	err := e.sender.SendGuide(ctx, delivery.Guide{
		Name:     data.Nome,
		Email:    email,
		Markdown: data.Guide,
	})
	if err != nil {
		return fmt.Sprintf("❌ Desculpe, houve um erro ao enviar o email: %v. Por favor, tente novamente mais tarde ou verifique se o email fornecido está correto.", err)
	}
	return fmt.Sprintf("✅ Guia enviado com sucesso para o email %s! Verifique sua caixa de entrada (e também a pasta de spam, só por precaução). 📧✨", email)
}

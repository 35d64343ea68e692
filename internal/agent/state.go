// Package agent implements the Tide conversation: a routed dialogue graph
// with a retrieval-backed chat flow and a guided intake flow that produces a
// personalized consultation guide.
package agent

import (
	"fmt"
	"strings"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
)

// NotInformed marks an intake question the user skipped.
const NotInformed = "Não informado"

// Route labels produced by the router.
const (
	RouteChat  = "chat"
	RouteGuide = "guide"
)

// UserData holds everything collected during the guided intake, plus the
// generated guide. JSON keys match the intake form fields.
type UserData struct {
	Nome              string `json:"nome,omitempty"`
	Idade             string `json:"idade,omitempty"`
	Email             string `json:"email,omitempty"`
	CicloMenstrual    string `json:"ciclo_menstrual,omitempty"`
	SintomasFisicos   string `json:"sintomas_fisicos,omitempty"`
	SaudeEmocional    string `json:"saude_emocional,omitempty"`
	HabitosHistorico  string `json:"habitos_historico,omitempty"`
	ExamesTratamentos string `json:"exames_tratamentos,omitempty"`

	// Guide is the generated consultation guide in markdown.
	Guide string `json:"guide,omitempty"`
}

// Empty reports whether no intake answers have been collected yet.
func (u UserData) Empty() bool {
	return u.Nome == "" && u.Idade == "" && u.Email == "" &&
		u.CicloMenstrual == "" && u.SintomasFisicos == "" &&
		u.SaudeEmocional == "" && u.HabitosHistorico == "" &&
		u.ExamesTratamentos == ""
}

// answered pairs each intake field with its label and question, in intake
// order.
type answered struct {
	key      string
	question string
	value    string
}

// fields returns the intake answers in collection order, excluding the
// generated guide.
func (u UserData) fields() []answered {
	return []answered{
		{"nome", questionNome, u.Nome},
		{"idade", questionIdade, u.Idade},
		{"email", questionEmail, u.Email},
		{"ciclo_menstrual", questionCicloMenstrual, u.CicloMenstrual},
		{"sintomas_fisicos", questionSintomasFisicos, u.SintomasFisicos},
		{"saude_emocional", questionSaudeEmocional, u.SaudeEmocional},
		{"habitos_historico", questionHabitosHistorico, u.HabitosHistorico},
		{"exames_tratamentos", questionExamesTratamentos, u.ExamesTratamentos},
	}
}

// Summary renders the collected answers as the bulleted recap shown to the
// user before confirmation.
func (u UserData) Summary() string {
	if u.Empty() {
		return "Ainda não recebi informações suas. Quando estiver pronta, posso fazer as perguntas novamente."
	}

	const sep = "────────────────────────────────────────"

	var b strings.Builder
	b.WriteString("Obrigado por fornecer essas informações. Aqui está um resumo dos dados que você compartilhou:\n\n")
	b.WriteString(sep + "\n")
	for _, f := range u.fields() {
		if f.value == "" {
			continue
		}
		pretty := strings.ReplaceAll(f.key, "_", " ")
		pretty = strings.ToUpper(pretty[:1]) + pretty[1:]
		fmt.Fprintf(&b, "• %s: %s\n", pretty, f.value)
	}
	b.WriteString(sep + "\n")
	b.WriteString("Se quiser alterar algum item, basta responder que não confirma para recomeçar.")
	return b.String()
}

// State is the conversation state flowing through the dialogue graph.
// It is serialized as JSON into checkpoints, so every field must be
// marshalable.
type State struct {
	// Messages is the transcript, oldest first.
	Messages []llm.Message `json:"messages"`

	// Route is the flow chosen by the router for the current turn.
	Route string `json:"route,omitempty"`

	// UserData accumulates intake answers and the generated guide.
	UserData UserData `json:"user_data"`

	// Confirmation records the intake confirmation gate's outcome.
	Confirmation bool `json:"confirmation"`

	// Evaluation loop bookkeeping for the chat flow.
	PassEvaluation bool   `json:"pass_evaluation"`
	Problem        string `json:"problem,omitempty"`
	Reformulations int    `json:"reformulations,omitempty"`
}

// AppendUser appends a user message to the transcript.
func (s State) AppendUser(text string) State {
	s.Messages = append(s.Messages, llm.Message{Role: llm.RoleUser, Content: text})
	return s
}

// AppendAssistant appends an assistant text message to the transcript.
func (s State) AppendAssistant(text string) State {
	s.Messages = append(s.Messages, llm.Message{Role: llm.RoleAssistant, Content: text})
	return s
}

// LastAssistantText returns the content of the most recent assistant
// message, or the empty string.
func (s State) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llm.RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}

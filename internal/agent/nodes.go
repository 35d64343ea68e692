package agent

import (
	"fmt"
	"strings"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog"
)

// Node identifiers in the conversation graph.
const (
	nodeEntry       = "entry"
	nodeWelcome     = "welcome"
	nodeRouter      = "router"
	nodeChat        = "chat"
	nodeTools       = "tools"
	nodeEvaluate    = "evaluate"
	nodeReformulate = "reformulate"
	nodeGuideIntro  = "guide_intro"
	nodePersonal    = "personal"
	nodeHealth      = "health"
	nodeSummary     = "summary"
	nodeConfirm     = "confirm"
	nodeGenerate    = "generate"
)

// DefaultMaxReformulations bounds the evaluate/reformulate loop per turn.
const DefaultMaxReformulations = 2

// flows holds the services the node functions close over.
type flows struct {
	client            llm.Client
	tools             *toolExecutor
	model             string
	maxReformulations int
}

// buildGraph assembles the full conversation graph.
func buildGraph(f *flows) (*dialog.CompiledGraph[State], error) {
	g := dialog.NewGraph[State]().
		AddNode(nodeEntry, passthrough).
		AddNode(nodeWelcome, f.welcome).
		AddNode(nodeRouter, f.route).
		AddNode(nodeChat, f.chat).
		AddNode(nodeTools, f.runTools).
		AddNode(nodeEvaluate, f.evaluate).
		AddNode(nodeReformulate, f.reformulate).
		AddNode(nodeGuideIntro, f.guideIntro).
		AddInterruptNode(nodePersonal, promptPersonal, applyPersonal).
		AddInterruptNode(nodeHealth, promptHealth, applyHealth).
		AddNode(nodeSummary, f.summary).
		AddInterruptNode(nodeConfirm, promptConfirm, applyConfirm).
		AddNode(nodeGenerate, f.generate).
		AddConditionalEdge(nodeEntry, pickEntry).
		AddEdge(nodeWelcome, dialog.END).
		AddConditionalEdge(nodeRouter, pickFlow).
		AddConditionalEdge(nodeChat, f.afterChat).
		AddEdge(nodeTools, nodeChat).
		AddConditionalEdge(nodeEvaluate, f.afterEvaluation).
		AddEdge(nodeReformulate, nodeEvaluate).
		AddEdge(nodeGuideIntro, nodePersonal).
		AddEdge(nodePersonal, nodeHealth).
		AddEdge(nodeHealth, nodeSummary).
		AddEdge(nodeSummary, nodeConfirm).
		AddConditionalEdge(nodeConfirm, pickAfterConfirmation).
		AddEdge(nodeGenerate, dialog.END).
		SetEntry(nodeEntry)

	return g.Compile()
}

func passthrough(_ dialog.Context, s State) (State, error) {
	return s, nil
}

// pickEntry sends the very first message of a thread to the welcome node;
// everything after that goes through the router.
func pickEntry(_ dialog.Context, s State) string {
	if len(s.Messages) <= 1 {
		return nodeWelcome
	}
	return nodeRouter
}

func (f *flows) welcome(_ dialog.Context, s State) (State, error) {
	s.Confirmation = false
	return s.AppendAssistant(welcomeMessage), nil
}

// routeDecision is the router's structured output.
type routeDecision struct {
	Route string `json:"route"`
}

// route classifies the turn as free-form chat or guided intake. Any routing
// failure falls back to chat rather than aborting the turn.
func (f *flows) route(ctx dialog.Context, s State) (State, error) {
	decision, err := llm.CompleteStructured[routeDecision](ctx, f.client, llm.CompletionRequest{
		SystemPrompt: routerPrompt,
		Messages:     s.Messages,
		Model:        f.model,
	})
	if err != nil || (decision.Route != RouteChat && decision.Route != RouteGuide) {
		if err != nil {
			ctx.Logger().Warn("routing failed, defaulting to chat", "error", err)
		}
		s.Route = RouteChat
		return s, nil
	}

	s.Route = decision.Route
	return s, nil
}

func pickFlow(_ dialog.Context, s State) string {
	if s.Route == RouteGuide {
		return nodeGuideIntro
	}
	return nodeChat
}

// chat produces the assistant's answer, possibly requesting tool execution.
// A completion fault substitutes the apology answer instead of failing the
// turn. The evaluation bookkeeping resets here so each fresh answer is judged
// on its own.
func (f *flows) chat(ctx dialog.Context, s State) (State, error) {
	resp, err := f.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: chatSystemPrompt,
		Messages:     s.Messages,
		Model:        f.model,
		Tools:        chatTools(),
	})
	if err != nil {
		ctx.Logger().Error("chat completion failed, substituting apology", "error", err)
		resp = &llm.CompletionResponse{
			Message: llm.Message{Role: llm.RoleAssistant, Content: chatFailureMessage},
		}
	}

	s.Messages = append(s.Messages, resp.Message)
	s.PassEvaluation = false
	s.Problem = ""
	s.Reformulations = 0
	return s, nil
}

func (f *flows) afterChat(_ dialog.Context, s State) string {
	if len(s.Messages) > 0 && len(s.Messages[len(s.Messages)-1].ToolCalls) > 0 {
		return nodeTools
	}
	return nodeEvaluate
}

// runTools executes every tool call from the last assistant message and
// appends one tool result message per call.
func (f *flows) runTools(ctx dialog.Context, s State) (State, error) {
	last := s.Messages[len(s.Messages)-1]
	for _, call := range last.ToolCalls {
		ctx.Logger().Info("executing tool", "tool", call.Name)
		result := f.tools.execute(ctx, call, s.UserData)
		s.Messages = append(s.Messages, llm.Message{
			Role:       llm.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}
	return s, nil
}

// evaluation is the evaluator's structured verdict on the last answer.
type evaluation struct {
	PassEvaluation bool   `json:"pass_evaluation"`
	Problem        string `json:"problem"`
}

// evaluate judges the most recent assistant answer. Evaluator failures count
// as a pass so a flaky judge can never block the user's reply.
func (f *flows) evaluate(ctx dialog.Context, s State) (State, error) {
	verdict, err := llm.CompleteStructured[evaluation](ctx, f.client, llm.CompletionRequest{
		SystemPrompt: evaluationPrompt,
		Messages:     s.Messages,
		Model:        f.model,
	})
	if err != nil {
		ctx.Logger().Warn("evaluation failed, accepting answer", "error", err)
		s.PassEvaluation = true
		s.Problem = ""
		return s, nil
	}

	s.PassEvaluation = verdict.PassEvaluation
	s.Problem = verdict.Problem
	if !s.PassEvaluation && s.Problem == "" {
		s.Problem = defaultProblem
	}
	return s, nil
}

func (f *flows) afterEvaluation(ctx dialog.Context, s State) string {
	if s.PassEvaluation {
		return dialog.END
	}
	if s.Reformulations >= f.maxReformulations {
		ctx.Logger().Warn("reformulation limit reached, keeping last answer",
			"reformulations", s.Reformulations)
		return dialog.END
	}
	return nodeReformulate
}

// reformulate rewrites the last assistant answer to address the evaluator's
// objection, replacing it in the transcript. The replacement is never empty
// and a completion fault keeps the current answer; the attempt still counts
// toward the reformulation limit so the loop stays bounded.
func (f *flows) reformulate(ctx dialog.Context, s State) (State, error) {
	history := append(append([]llm.Message{}, s.Messages...), llm.Message{
		Role:    llm.RoleUser,
		Content: reformulationNudge,
	})

	resp, err := f.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(reformulationPromptFmt, s.Problem),
		Messages:     history,
		Model:        f.model,
	})
	if err != nil {
		ctx.Logger().Warn("reformulation failed, keeping current answer", "error", err)
		s.Reformulations++
		s.PassEvaluation = false
		s.Problem = ""
		return s, nil
	}

	replacement := resp.Message.Content
	if strings.TrimSpace(replacement) == "" {
		ctx.Logger().Warn("empty reformulation, substituting fallback answer")
		replacement = reformulationFallbackMessage
	}

	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llm.RoleAssistant {
			s.Messages[i] = llm.Message{Role: llm.RoleAssistant, Content: replacement}
			break
		}
	}

	s.Reformulations++
	s.PassEvaluation = false
	s.Problem = ""
	return s, nil
}

func (f *flows) guideIntro(_ dialog.Context, s State) (State, error) {
	return s.AppendAssistant(guideIntroMessage), nil
}

func promptPersonal(_ dialog.Context, _ State) string {
	return personalQuestionsPrompt
}

func applyPersonal(_ dialog.Context, s State, in dialog.Input) (State, error) {
	s.UserData.Nome = in.String("nome", NotInformed)
	s.UserData.Idade = in.String("idade", NotInformed)
	s.UserData.Email = in.String("email", NotInformed)
	return s, nil
}

func promptHealth(_ dialog.Context, _ State) string {
	return healthQuestionsPrompt
}

func applyHealth(_ dialog.Context, s State, in dialog.Input) (State, error) {
	s.UserData.CicloMenstrual = in.String("ciclo_menstrual", NotInformed)
	s.UserData.SintomasFisicos = in.String("sintomas_fisicos", NotInformed)
	s.UserData.SaudeEmocional = in.String("saude_emocional", NotInformed)
	s.UserData.HabitosHistorico = in.String("habitos_historico", NotInformed)
	s.UserData.ExamesTratamentos = in.String("exames_tratamentos", NotInformed)
	return s, nil
}

func (f *flows) summary(_ dialog.Context, s State) (State, error) {
	return s.AppendAssistant(s.UserData.Summary()), nil
}

func promptConfirm(_ dialog.Context, _ State) string {
	return confirmationQuestion
}

func applyConfirm(_ dialog.Context, s State, in dialog.Input) (State, error) {
	s.Confirmation = in.Bool("confirmation", false)
	return s, nil
}

// pickAfterConfirmation either proceeds to generation or restarts the intake
// when the user did not confirm the summary.
func pickAfterConfirmation(_ dialog.Context, s State) string {
	if s.Confirmation {
		return nodeGenerate
	}
	return nodePersonal
}

// generate produces the consultation guide from the collected answers,
// stores the markdown and appends the post-generation reply.
func (f *flows) generate(ctx dialog.Context, s State) (State, error) {
	resp, err := f.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: guideSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: generationRequest(s.UserData),
		}},
		Model: f.model,
	})
	if err != nil {
		ctx.Logger().Error("guide generation failed", "error", err)
		return s.AppendAssistant(generationFailureMessage), nil
	}

	content := resp.Message.Content
	if strings.TrimSpace(content) == "" {
		ctx.Logger().Warn("empty guide generation, using fallback guide")
		content = fallbackGuideResponse()
	}

	s.UserData.Guide = extractGuide(content)
	return s.AppendAssistant(content), nil
}

// generationRequest lays out every answered intake question as a
// question/answer pair for the generation prompt.
func generationRequest(u UserData) string {
	var b strings.Builder
	b.WriteString("Com base nas informações abaixo, gere o guia personalizado para consulta médica:\n\n")
	for _, f := range u.fields() {
		if f.value == "" || f.value == NotInformed {
			continue
		}
		fmt.Fprintf(&b, "PERGUNTA: %s\nRESPOSTA: %s\n\n", f.question, f.value)
	}
	return b.String()
}

// extractGuide returns the trimmed markdown between the guide markers. When
// either marker is missing the entire response is the guide.
func extractGuide(content string) string {
	start := strings.Index(content, guideStartMarker)
	end := strings.Index(content, guideEndMarker)
	if start < 0 || end < 0 || end < start {
		return content
	}
	return strings.TrimSpace(content[start+len(guideStartMarker) : end])
}

// fallbackGuideResponse follows the delimited format the generation prompt
// mandates, so extraction and delivery treat it like any model output.
func fallbackGuideResponse() string {
	return fmt.Sprintf("%s\n%s\n%s\n\n%s",
		guideStartMarker, fallbackGuideContent, guideEndMarker, fallbackGuideReply)
}

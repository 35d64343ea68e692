package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/delivery"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/retrieval"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
)

// ErrThreadWaiting is returned by Send when the thread is suspended at an
// intake question. Callers must answer through Resume instead.
var ErrThreadWaiting = errors.New("agent: thread is waiting for input, use Resume")

// Turn is the user-facing result of one conversation turn.
type Turn struct {
	// Reply is the assistant's answer. Empty while the thread is waiting.
	Reply string
	// Waiting reports that the turn suspended at an intake question.
	Waiting bool
	// Prompt is the pending question when Waiting is true.
	Prompt string
}

// Agent drives the Tide conversation graph over a checkpoint store.
// One Agent serves any number of threads concurrently.
type Agent struct {
	graph  *dialog.CompiledGraph[State]
	store  checkpoint.Store
	logger *slog.Logger
}

// Option configures an Agent.
type Option func(*options)

type options struct {
	model             string
	maxReformulations int
	logger            *slog.Logger
}

// WithModel overrides the model used for every completion.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithMaxReformulations caps how many times a chat answer may be rewritten
// per turn. Default: 2.
func WithMaxReformulations(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxReformulations = n
		}
	}
}

// WithAgentLogger sets the logger for turn execution.
func WithAgentLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New assembles the conversation graph over the given services. The searcher
// and sender may be nil; the matching tools then answer with corrective
// messages instead of failing.
func New(client llm.Client, searcher retrieval.Searcher, sender delivery.Sender, store checkpoint.Store, opts ...Option) (*Agent, error) {
	if client == nil {
		return nil, errors.New("agent: llm client is required")
	}
	if store == nil {
		return nil, errors.New("agent: checkpoint store is required")
	}

	o := options{
		maxReformulations: DefaultMaxReformulations,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := &flows{
		client:            client,
		tools:             &toolExecutor{searcher: searcher, sender: sender},
		model:             o.model,
		maxReformulations: o.maxReformulations,
	}

	graph, err := buildGraph(f)
	if err != nil {
		return nil, fmt.Errorf("agent: compile graph: %w", err)
	}

	return &Agent{graph: graph, store: store, logger: o.logger}, nil
}

// Send runs one turn with the user's message. The thread's state is loaded
// from its latest checkpoint, or starts fresh for a new thread. If the thread
// is suspended at an intake question, Send fails with ErrThreadWaiting.
func (a *Agent) Send(ctx context.Context, threadID, text string) (Turn, error) {
	waiting, _, err := dialog.Waiting(a.store, threadID)
	if err != nil {
		return Turn{}, err
	}
	if waiting {
		return Turn{}, ErrThreadWaiting
	}

	state, err := dialog.LatestState[State](a.store, threadID)
	if errors.Is(err, dialog.ErrNoCheckpoints) {
		state = State{}
	} else if err != nil {
		return Turn{}, err
	}
	state = state.AppendUser(text)

	out, err := a.graph.Run(a.dialogCtx(ctx, threadID), state,
		dialog.WithCheckpointing(a.store),
		dialog.WithThreadID(threadID),
	)
	if err != nil {
		return Turn{}, err
	}
	return toTurn(out), nil
}

// Resume answers the pending intake question of a suspended thread and
// continues the turn. Resuming a thread that is not waiting recovers it from
// its last checkpoint instead.
func (a *Agent) Resume(ctx context.Context, threadID string, in dialog.Input) (Turn, error) {
	out, err := a.graph.Resume(a.dialogCtx(ctx, threadID), a.store, threadID,
		dialog.WithInput(in),
	)
	if err != nil {
		return Turn{}, err
	}
	return toTurn(out), nil
}

// Waiting reports whether the thread is suspended, with its pending prompt.
func (a *Agent) Waiting(threadID string) (bool, string, error) {
	return dialog.Waiting(a.store, threadID)
}

// History returns the thread's transcript from its latest checkpoint.
// A thread with no checkpoints has an empty history.
func (a *Agent) History(threadID string) ([]llm.Message, error) {
	state, err := dialog.LatestState[State](a.store, threadID)
	if errors.Is(err, dialog.ErrNoCheckpoints) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state.Messages, nil
}

// Guide returns the generated consultation guide for the thread, or the
// empty string when none was generated yet.
func (a *Agent) Guide(threadID string) (string, error) {
	state, err := dialog.LatestState[State](a.store, threadID)
	if errors.Is(err, dialog.ErrNoCheckpoints) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return state.UserData.Guide, nil
}

func (a *Agent) dialogCtx(ctx context.Context, threadID string) dialog.Context {
	return dialog.NewContext(ctx,
		dialog.WithLogger(a.logger),
		dialog.WithContextThreadID(threadID),
	)
}

func toTurn(out dialog.Outcome[State]) Turn {
	if out.Suspended() {
		return Turn{Waiting: true, Prompt: out.Interrupt.Prompt}
	}
	return Turn{Reply: out.State.LastAssistantText()}
}

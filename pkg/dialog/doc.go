/*
Package dialog provides graph-based orchestration for conversational agents.

# Overview

dialog executes directed graphs where nodes transform a shared conversation
state and edges define control flow. It was built for stateful dialogue
orchestration: conditional routing between flows, human-in-the-loop interrupt
nodes that suspend a turn while the caller collects input, and per-node
checkpointing so a thread can be resumed across process restarts.

Key properties:
  - Type-safe generics for the state record
  - Compile-time validation of graph structure
  - Explicit suspension status instead of control-flow exceptions
  - Crash recovery via checkpointing
  - OpenTelemetry integration for observability

# Basic Usage

Create a graph with nodes and edges, then compile and run:

	type State struct {
	    Input  string
	    Output string
	}

	func respond(ctx dialog.Context, s State) (State, error) {
	    s.Output = "Echo: " + s.Input
	    return s, nil
	}

	graph := dialog.NewGraph[State]().
	    AddNode("respond", respond).
	    AddEdge("respond", dialog.END).
	    SetEntry("respond")

	compiled, err := graph.Compile()
	if err != nil {
	    log.Fatal(err)
	}

	ctx := dialog.NewContext(context.Background())
	out, err := compiled.Run(ctx, State{Input: "hello"})

# Conditional Branching

Use conditional edges for decision points:

	graph.AddConditionalEdge("classify", func(ctx dialog.Context, s State) string {
	    if s.WantsGuide {
	        return "guide"
	    }
	    return "chat"
	})

The router function returns the ID of the next node to execute.
Invalid return values (referencing non-existent nodes) cause runtime errors.

# Interrupt Nodes

An interrupt node halts the turn and surfaces a prompt to the caller. The
engine checkpoints the thread as waiting and Run returns an Outcome whose
Interrupt field is non-nil. The caller later supplies the collected input
through Resume:

	graph.AddInterruptNode("ask_name",
	    func(ctx dialog.Context, s State) string { return "What is your name?" },
	    func(ctx dialog.Context, s State, in dialog.Input) (State, error) {
	        s.Name = in.String("name", "unknown")
	        return s, nil
	    })

	out, err := compiled.Run(ctx, state,
	    dialog.WithCheckpointing(store), dialog.WithThreadID("thread-1"))
	if out.Suspended() {
	    // show out.Interrupt.Prompt, collect input, then:
	    out, err = compiled.Resume(ctx, store, "thread-1",
	        dialog.WithInput(dialog.Input{"name": "Ana"}))
	}

# Checkpointing

Checkpoints are saved after each successful node execution. When resuming
after a crash, execution continues from the node after the last checkpoint,
behaviorally identical to an uninterrupted run:

	store, err := checkpoint.NewSQLiteStore("./threads.db")
	defer store.Close()

	out, err := compiled.Run(ctx, state,
	    dialog.WithCheckpointing(store),
	    dialog.WithThreadID("thread-1"))

Loops are protected by a max iteration guard (default 100). Configure with
WithMaxIterations.
*/
package dialog

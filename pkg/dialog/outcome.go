package dialog

// Interrupt describes a suspended turn: which node is waiting and the
// prompt the caller should surface while collecting input.
type Interrupt struct {
	// NodeID is the interrupt node awaiting input.
	NodeID string
	// Prompt is the rendered prompt for the external caller.
	Prompt string
}

// Outcome is the result of one turn of graph execution. Exactly one of the
// two shapes applies: a completed turn (Interrupt == nil, State is the state
// at END) or a suspended turn (Interrupt != nil, State is the state at the
// suspension point).
//
// The external driver pattern-matches on Suspended():
//
//	out, err := compiled.Run(ctx, state, opts...)
//	if err != nil { ... }
//	if out.Suspended() {
//	    show(out.Interrupt.Prompt)
//	    // later: compiled.Resume(ctx, store, threadID, dialog.WithInput(in))
//	} else {
//	    render(out.State)
//	}
type Outcome[S any] struct {
	// State is the conversation state when the turn ended or suspended.
	State S
	// Interrupt is non-nil when the turn suspended awaiting input.
	Interrupt *Interrupt
}

// Suspended reports whether the turn halted at an interrupt node.
func (o Outcome[S]) Suspended() bool {
	return o.Interrupt != nil
}

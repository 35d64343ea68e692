package dialog

// END is the terminal node identifier.
// Use this as an edge target to indicate the turn should terminate.
const END = "__end__"

// NodeFunc is the signature for all regular node functions.
// Nodes receive the execution context and current state,
// and return the updated state (or the same state) and any error.
//
// The state parameter is passed by value. Nodes should modify and return
// a new state value, not rely on pointer mutation.
//
// Example:
//
//	func welcome(ctx dialog.Context, s State) (State, error) {
//	    s.Messages = append(s.Messages, greeting)
//	    return s, nil
//	}
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc determines the next node based on state.
// It is used for conditional edges where the next node depends on runtime state.
//
// The router should return a valid node ID or dialog.END.
// Returning an empty string or an unknown node ID will cause a runtime error.
type RouterFunc[S any] func(ctx Context, state S) string

// PromptFunc renders the prompt surfaced to the caller when an interrupt
// node suspends the turn. It must not mutate state.
type PromptFunc[S any] func(ctx Context, state S) string

// ApplyFunc merges externally collected input into the state when an
// interrupted thread is resumed. It stands in for the suspended node's body:
// the input is what the suspension "returned".
type ApplyFunc[S any] func(ctx Context, state S, in Input) (S, error)

// Input is the payload supplied when resuming an interrupted thread.
// Accessors never fail: a missing or mistyped key yields the caller's
// fallback, so a malformed payload can never abort a turn.
type Input map[string]any

// String returns the string value for key, or fallback if missing,
// empty, or not a string.
func (in Input) String(key, fallback string) string {
	v, ok := in[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// Bool returns the boolean value for key, or fallback if missing or not a bool.
func (in Input) Bool(key string, fallback bool) bool {
	v, ok := in[key]
	if !ok {
		return fallback
	}
	b, ok := v.(bool)
	if !ok {
		return fallback
	}
	return b
}

// interruptNode pairs the prompt renderer with the resume handler.
type interruptNode[S any] struct {
	prompt PromptFunc[S]
	apply  ApplyFunc[S]
}

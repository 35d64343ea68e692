package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompile_Valid tests compiling a valid graph.
func TestCompile_Valid(t *testing.T) {
	compiled, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddNode("b", increment).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a").
		Compile()

	require.NoError(t, err)
	assert.Equal(t, "a", compiled.EntryPoint())
	assert.True(t, compiled.HasNode("a"))
	assert.True(t, compiled.HasNode("b"))
	assert.False(t, compiled.HasNode("c"))
}

// TestCompile_NoEntryPoint tests that a missing entry point fails.
func TestCompile_NoEntryPoint(t *testing.T) {
	_, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddEdge("a", END).
		Compile()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

// TestCompile_EntryNotFound tests that an unknown entry point fails.
func TestCompile_EntryNotFound(t *testing.T) {
	_, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddEdge("a", END).
		SetEntry("missing").
		Compile()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

// TestCompile_EdgeTargetNotFound tests that edges to unknown nodes fail.
func TestCompile_EdgeTargetNotFound(t *testing.T) {
	_, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddEdge("a", "ghost").
		SetEntry("a").
		Compile()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// TestCompile_NoPathToEnd tests that a dead-end graph fails.
func TestCompile_NoPathToEnd(t *testing.T) {
	_, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddNode("b", increment).
		AddEdge("a", "b").
		AddEdge("b", "a").
		SetEntry("a").
		Compile()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPathToEnd)
}

// TestCompile_ConditionalEdgeReachesEnd tests that a conditional edge is
// assumed to potentially route to END.
func TestCompile_ConditionalEdgeReachesEnd(t *testing.T) {
	router := func(ctx Context, s Counter) string { return END }

	compiled, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddConditionalEdge("a", router).
		SetEntry("a").
		Compile()

	require.NoError(t, err)
	assert.True(t, compiled.IsConditional("a"))
}

// TestCompile_MultipleErrors tests that all validation errors are reported.
func TestCompile_MultipleErrors(t *testing.T) {
	_, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddEdge("a", "ghost").
		Compile()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// TestCompile_InterruptNeedsOneEdge tests that interrupt nodes require a
// single outgoing edge.
func TestCompile_InterruptNeedsOneEdge(t *testing.T) {
	prompt, apply := askAnswer("?")

	// No outgoing edge
	_, err := NewGraph[State]().
		AddInterruptNode("ask", prompt, apply).
		SetEntry("ask").
		Compile()
	require.Error(t, err)

	// Two outgoing edges
	_, err = NewGraph[State]().
		AddNode("a", passthrough[State]).
		AddInterruptNode("ask", prompt, apply).
		AddEdge("ask", "a").
		AddEdge("ask", END).
		AddEdge("a", END).
		SetEntry("ask").
		Compile()
	require.Error(t, err)

	// Exactly one edge compiles
	compiled, err := NewGraph[State]().
		AddInterruptNode("ask", prompt, apply).
		AddEdge("ask", END).
		SetEntry("ask").
		Compile()
	require.NoError(t, err)
	assert.True(t, compiled.IsInterrupt("ask"))
}

// TestCompile_InterruptWithConditionalEdge tests that an interrupt node may
// route through a conditional edge instead of a simple one.
func TestCompile_InterruptWithConditionalEdge(t *testing.T) {
	prompt, apply := askAnswer("?")
	router := func(ctx Context, s State) string { return END }

	_, err := NewGraph[State]().
		AddInterruptNode("confirm", prompt, apply).
		AddConditionalEdge("confirm", router).
		SetEntry("confirm").
		Compile()

	require.NoError(t, err)
}

// TestCompile_Introspection tests successor/predecessor precomputation.
func TestCompile_Introspection(t *testing.T) {
	compiled, err := NewGraph[Counter]().
		AddNode("a", increment).
		AddNode("b", increment).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a").
		Compile()

	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, compiled.Successors("a"))
	assert.Equal(t, []string{"a"}, compiled.Predecessors("b"))
	assert.Nil(t, compiled.Successors(END))
	assert.ElementsMatch(t, []string{"a", "b"}, compiled.NodeIDs())
}

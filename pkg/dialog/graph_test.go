package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGraph tests graph creation.
func TestNewGraph(t *testing.T) {
	graph := NewGraph[Counter]()

	require.NotNil(t, graph)
	assert.Empty(t, graph.nodes)
	assert.Empty(t, graph.interrupts)
	assert.Empty(t, graph.edges)
}

// TestAddNode_Chaining tests the fluent builder API.
func TestAddNode_Chaining(t *testing.T) {
	graph := NewGraph[Counter]().
		AddNode("a", increment).
		AddNode("b", increment).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a")

	assert.Len(t, graph.nodes, 2)
	assert.Equal(t, "a", graph.entryPoint)
}

// TestAddNode_EmptyID tests that empty node IDs panic.
func TestAddNode_EmptyID(t *testing.T) {
	assert.Panics(t, func() {
		NewGraph[Counter]().AddNode("", increment)
	})
}

// TestAddNode_ReservedID tests that END variants panic.
func TestAddNode_ReservedID(t *testing.T) {
	for _, id := range []string{"END", "end", "End", "__end__", "__END__"} {
		assert.Panics(t, func() {
			NewGraph[Counter]().AddNode(id, increment)
		}, "id %q should be rejected", id)
	}
}

// TestAddNode_WhitespaceID tests that whitespace in IDs panics.
func TestAddNode_WhitespaceID(t *testing.T) {
	for _, id := range []string{"a b", "a\tb", "a\nb"} {
		assert.Panics(t, func() {
			NewGraph[Counter]().AddNode(id, increment)
		}, "id %q should be rejected", id)
	}
}

// TestAddNode_NilFunc tests that nil node functions panic.
func TestAddNode_NilFunc(t *testing.T) {
	assert.Panics(t, func() {
		NewGraph[Counter]().AddNode("a", nil)
	})
}

// TestAddNode_Duplicate tests that duplicate IDs panic.
func TestAddNode_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewGraph[Counter]().
			AddNode("a", increment).
			AddNode("a", increment)
	})
}

// TestAddInterruptNode_DuplicateAcrossKinds tests that an interrupt node
// cannot reuse a regular node's ID and vice versa.
func TestAddInterruptNode_DuplicateAcrossKinds(t *testing.T) {
	prompt, apply := askAnswer("?")

	assert.Panics(t, func() {
		NewGraph[State]().
			AddNode("a", passthrough[State]).
			AddInterruptNode("a", prompt, apply)
	})

	assert.Panics(t, func() {
		NewGraph[State]().
			AddInterruptNode("a", prompt, apply).
			AddNode("a", passthrough[State])
	})
}

// TestAddInterruptNode_NilFuncs tests that nil prompt or apply panics.
func TestAddInterruptNode_NilFuncs(t *testing.T) {
	prompt, apply := askAnswer("?")

	assert.Panics(t, func() {
		NewGraph[State]().AddInterruptNode("ask", nil, apply)
	})
	assert.Panics(t, func() {
		NewGraph[State]().AddInterruptNode("ask", prompt, nil)
	})
}

// TestAddConditionalEdge_NilRouter tests that nil routers panic.
func TestAddConditionalEdge_NilRouter(t *testing.T) {
	assert.Panics(t, func() {
		NewGraph[Counter]().
			AddNode("a", increment).
			AddConditionalEdge("a", nil)
	})
}

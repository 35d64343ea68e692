package dialog

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a mutable builder for creating dialogue graphs.
// Use NewGraph to create a new graph, then chain AddNode, AddEdge,
// AddInterruptNode and SetEntry calls to define the conversation flow.
//
// Graph is NOT thread-safe during building. Use a single goroutine
// to construct the graph, then call Compile() to create an immutable
// CompiledGraph that can be safely shared.
//
// Example:
//
//	graph := dialog.NewGraph[State]().
//	    AddNode("router", routerNode).
//	    AddNode("chat", chatNode).
//	    AddConditionalEdge("router", pickFlow).
//	    AddEdge("chat", dialog.END).
//	    SetEntry("router")
//
//	compiled, err := graph.Compile()
type Graph[S any] struct {
	mu               sync.RWMutex
	nodes            map[string]NodeFunc[S]
	interrupts       map[string]*interruptNode[S]
	edges            map[string][]string
	conditionalEdges map[string]RouterFunc[S]
	entryPoint       string
}

// NewGraph creates a new graph builder for state type S.
// The type parameter S defines the state that flows through the graph.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:            make(map[string]NodeFunc[S]),
		interrupts:       make(map[string]*interruptNode[S]),
		edges:            make(map[string][]string),
		conditionalEdges: make(map[string]RouterFunc[S]),
	}
}

// AddNode adds a named node to the graph.
// Returns the graph for method chaining.
//
// Panics if:
//   - id is empty
//   - id is the reserved word "END" or "__end__" (case-insensitive)
//   - id contains whitespace (space, tab, newline)
//   - fn is nil
//   - id already exists in the graph
func (g *Graph[S]) AddNode(id string, fn NodeFunc[S]) *Graph[S] {
	validateNodeID(id)
	if fn == nil {
		panic("dialog: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureUnique(id)
	g.nodes[id] = fn
	return g
}

// AddInterruptNode adds a suspension point to the graph. When execution
// reaches the node without a pending resume payload, the engine halts the
// turn, checkpoints the thread as waiting, and surfaces the rendered prompt
// to the caller. On resume, apply merges the collected input into the state
// and execution continues to the node's successor.
//
// Panics under the same conditions as AddNode, and additionally when either
// function is nil.
func (g *Graph[S]) AddInterruptNode(id string, prompt PromptFunc[S], apply ApplyFunc[S]) *Graph[S] {
	validateNodeID(id)
	if prompt == nil {
		panic("dialog: interrupt prompt function cannot be nil")
	}
	if apply == nil {
		panic("dialog: interrupt apply function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureUnique(id)
	g.interrupts[id] = &interruptNode[S]{prompt: prompt, apply: apply}
	return g
}

// AddEdge adds an unconditional edge from one node to another.
// The target can be a node ID or dialog.END.
// Returns the graph for method chaining.
//
// Edge validation happens at Compile() time, not here.
// This allows edges to be added in any order.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge adds a conditional edge where a RouterFunc
// determines the next node at runtime based on state.
// Returns the graph for method chaining.
//
// The router function should return a valid node ID or dialog.END.
// Returning an empty string or unknown node ID will cause a runtime error.
//
// A node can have either simple edges or a conditional edge, not both.
// If both are present, the conditional edge takes precedence.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S]) *Graph[S] {
	if router == nil {
		panic("dialog: router function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.conditionalEdges[from] = router
	return g
}

// SetEntry designates the entry point node.
// This must be called before Compile().
// Returns the graph for method chaining.
//
// Entry point validation happens at Compile() time.
func (g *Graph[S]) SetEntry(id string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}

// hasNode reports whether id names a regular or interrupt node.
// Caller must hold at least a read lock.
func (g *Graph[S]) hasNode(id string) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	_, ok := g.interrupts[id]
	return ok
}

// ensureUnique panics if id is already taken by any node kind.
// Caller must hold the write lock.
func (g *Graph[S]) ensureUnique(id string) {
	if g.hasNode(id) {
		panic(fmt.Sprintf("dialog: duplicate node ID: %s", id))
	}
}

func validateNodeID(id string) {
	if id == "" {
		panic("dialog: node ID cannot be empty")
	}

	idLower := strings.ToLower(id)
	if idLower == "end" || idLower == "__end__" {
		panic("dialog: node ID cannot be reserved word 'END'")
	}

	if strings.ContainsAny(id, " \t\n\r") {
		panic("dialog: node ID cannot contain whitespace")
	}
}

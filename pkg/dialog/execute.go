package dialog

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/observability"
)

// Run executes one turn of the graph with the given initial state.
// Returns the turn outcome and any error encountered.
//
// On success, the outcome carries the state after the last node executed
// before END, or the state at the suspension point when an interrupt node
// halted the turn. On error, the outcome carries the state at the point of
// failure (useful for debugging); the last successful checkpoint remains the
// durable state of the thread.
//
// Execution flow:
//  1. Start at the entry point node
//  2. Check for cancellation
//  3. Execute the current node (or suspend, for an interrupt node)
//  4. Determine the next node (via simple or conditional edge)
//  5. Checkpoint, then repeat until END is reached
func (cg *CompiledGraph[S]) Run(ctx Context, state S, opts ...RunOption) (Outcome[S], error) {
	if ctx == nil {
		return Outcome[S]{State: state}, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate checkpointing configuration
	if cfg.checkpointStore != nil && cfg.threadID == "" {
		return Outcome[S]{State: state}, ErrThreadIDRequired
	}

	return cg.execute(ctx, state, cg.entryPoint, &cfg)
}

// execute runs the turn telemetry wrapper around runFrom.
// Shared by Run and Resume.
func (cg *CompiledGraph[S]) execute(ctx Context, state S, startNode string, cfg *runConfig) (Outcome[S], error) {
	threadID := cfg.threadID
	if threadID == "" {
		threadID = ctx.ThreadID()
	}

	startTime := time.Now()
	observability.LogTurnStart(ctx.Logger(), threadID)

	var execCtx context.Context = ctx
	var turnSpan trace.Span
	var out Outcome[S]
	var runErr error
	if cfg.tracingEnabled {
		execCtx, turnSpan = cfg.spans.StartTurnSpan(ctx, threadID)
		defer func() {
			cfg.spans.EndSpanWithError(turnSpan, runErr)
		}()
	}

	var nodeCount int
	out, nodeCount, runErr = cg.runFrom(execCtx, ctx, state, startNode, cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordTurn(ctx, runErr == nil, out.Suspended(), duration)

	switch {
	case runErr != nil:
		observability.LogTurnError(ctx.Logger(), threadID, runErr, durationMs, lastNodeOf(runErr))
	case out.Suspended():
		observability.LogTurnSuspended(ctx.Logger(), threadID, out.Interrupt.NodeID, durationMs)
	default:
		observability.LogTurnComplete(ctx.Logger(), threadID, durationMs, nodeCount)
	}

	return out, runErr
}

// lastNodeOf extracts the failing node from a typed execution error.
func lastNodeOf(err error) string {
	switch e := err.(type) {
	case *NodeError:
		return e.NodeID
	case *MaxIterationsError:
		return e.LastNodeID
	case *CancellationError:
		return e.NodeID
	case *CheckpointError:
		return e.NodeID
	}
	return ""
}

// runFrom executes the graph starting from a specific node.
// tracingCtx carries span context; dctx is the dialog Context.
// Returns the outcome, node count, and any error.
func (cg *CompiledGraph[S]) runFrom(tracingCtx context.Context, dctx Context, state S, startNode string, cfg *runConfig) (Outcome[S], int, error) {
	current := startNode
	iterations := 0
	prevNode := ""
	nodeCount := 0

	for current != END {
		iterations++
		if iterations > cfg.maxIterations {
			return Outcome[S]{State: state}, nodeCount, &MaxIterationsError{
				Max:        cfg.maxIterations,
				LastNodeID: current,
				State:      state,
			}
		}

		// Check for cancellation before executing node
		select {
		case <-dctx.Done():
			return Outcome[S]{State: state}, nodeCount, &CancellationError{
				NodeID: current,
				State:  state,
				Cause:  dctx.Err(),
			}
		default:
		}

		if intr, isInterrupt := cg.getInterrupt(current); isInterrupt &&
			!(cfg.resumeTarget == current && cfg.resumeInput != nil) {
			// Suspend: checkpoint the thread as waiting and hand control
			// back to the caller. The same node re-runs on resume.
			return cg.suspendAt(dctx, cfg, current, prevNode, state, intr, nodeCount)
		}

		observability.LogNodeStart(dctx.Logger(), current)

		nodeTracingCtx := tracingCtx
		var nodeSpan trace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()

		var nodeErr error
		state, nodeErr = cg.executeNode(dctx, cfg, current, state)

		nodeDuration := time.Since(nodeStart)
		nodeDurationMs := float64(nodeDuration.Milliseconds())

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, nodeErr)

		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(dctx.Logger(), current, nodeErr)
			return Outcome[S]{State: state}, nodeCount, nodeErr
		}
		observability.LogNodeComplete(dctx.Logger(), current, nodeDurationMs)
		nodeCount++

		// Determine next node
		next, err := cg.nextNode(dctx, state, current)
		if err != nil {
			return Outcome[S]{State: state}, nodeCount, err
		}

		// Checkpoint after successful node execution
		if cfg.checkpointStore != nil {
			if err := cg.saveCheckpoint(dctx, cfg, current, prevNode, state, next, "" /* prompt */, false); err != nil {
				return Outcome[S]{State: state}, nodeCount, err
			}
		}

		prevNode = current
		current = next
	}

	return Outcome[S]{State: state}, nodeCount, nil
}

// suspendAt checkpoints the thread as waiting at an interrupt node and
// returns the suspension outcome.
func (cg *CompiledGraph[S]) suspendAt(dctx Context, cfg *runConfig, nodeID, prevNode string, state S, intr *interruptNode[S], nodeCount int) (Outcome[S], int, error) {
	if cfg.checkpointStore == nil {
		return Outcome[S]{State: state}, nodeCount, &NodeError{
			NodeID: nodeID,
			Op:     "suspend",
			Err:    ErrInterruptNeedsCheckpointing,
		}
	}

	nodeCtx := dctx
	if ec, ok := dctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}
	prompt := intr.prompt(nodeCtx, state)

	// A waiting checkpoint failure is fatal: without it the thread could
	// never be resumed.
	if err := cg.saveCheckpoint(dctx, cfg, nodeID, prevNode, state, nodeID, prompt, true); err != nil {
		return Outcome[S]{State: state}, nodeCount, err
	}

	return Outcome[S]{
		State:     state,
		Interrupt: &Interrupt{NodeID: nodeID, Prompt: prompt},
	}, nodeCount, nil
}

// saveCheckpoint persists the current state after node execution.
// Serialization or store failures on regular checkpoints are logged and
// swallowed; waiting checkpoints propagate the failure.
func (cg *CompiledGraph[S]) saveCheckpoint(ctx Context, cfg *runConfig, nodeID, prevNodeID string, state S, nextNode, prompt string, waiting bool) error {
	fail := func(op string, err error) error {
		if waiting {
			return &CheckpointError{NodeID: nodeID, Op: op, Err: err}
		}
		observability.LogCheckpointError(ctx.Logger(), nodeID, op, err)
		return nil
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		return fail("serialize", err)
	}

	cfg.sequence++
	cp := checkpoint.New(cfg.threadID, nodeID, cfg.sequence, stateBytes, nextNode).
		WithPrevNode(prevNodeID)
	if waiting {
		cp = cp.WithWaiting(prompt)
	}

	data, err := cp.Marshal()
	if err != nil {
		return fail("marshal", err)
	}

	if err := cfg.checkpointStore.Save(cfg.threadID, nodeID, data); err != nil {
		return fail("save", err)
	}

	sizeBytes := len(data)
	observability.LogCheckpoint(ctx.Logger(), nodeID, sizeBytes)
	cfg.metrics.RecordCheckpoint(ctx, nodeID, int64(sizeBytes))

	return nil
}

// executeNode executes a single node with panic recovery.
// For the interrupt node being resumed, the apply function runs with the
// pending input standing in for the suspension's return value.
// Returns the new state and any error (including wrapped panics).
func (cg *CompiledGraph[S]) executeNode(ctx Context, cfg *runConfig, nodeID string, state S) (result S, err error) {
	// Create node-specific context with enriched logger
	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	if intr, ok := cg.getInterrupt(nodeID); ok {
		in := cfg.resumeInput
		cfg.resumeInput = nil
		cfg.resumeTarget = ""

		result, err = intr.apply(nodeCtx, state, in)
		if err != nil {
			return result, &NodeError{NodeID: nodeID, Op: "apply", Err: err}
		}
		return result, nil
	}

	fn, exists := cg.getNode(nodeID)
	if !exists {
		// This shouldn't happen if compilation was successful
		return state, &NodeError{
			NodeID: nodeID,
			Op:     "lookup",
			Err:    ErrNodeNotFound,
		}
	}

	result, err = fn(nodeCtx, state)
	if err != nil {
		return result, &NodeError{
			NodeID: nodeID,
			Op:     "execute",
			Err:    err,
		}
	}

	return result, nil
}

// nextNode determines the next node to execute.
// Checks conditional edges first, then simple edges.
func (cg *CompiledGraph[S]) nextNode(ctx Context, state S, current string) (string, error) {
	// Check for conditional edge first
	if router, exists := cg.getRouter(current); exists {
		routerCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routerCtx = ec.withNodeID(current)
		}

		next := router(routerCtx, state)

		// Validate router result
		if next == "" {
			return "", &RouterError{
				FromNode: current,
				Returned: next,
				Err:      ErrInvalidRouterResult,
			}
		}

		if next != END && !cg.HasNode(next) {
			return "", &RouterError{
				FromNode: current,
				Returned: next,
				Err:      ErrRouterTargetNotFound,
			}
		}

		return next, nil
	}

	// Use simple edges
	edges := cg.getEdges(current)
	if len(edges) == 0 {
		// No outgoing edges - this shouldn't happen if compilation was successful
		return "", &NodeError{
			NodeID: current,
			Op:     "routing",
			Err:    ErrNoPathToEnd,
		}
	}

	// For simple edges, take the first one
	return edges[0], nil
}

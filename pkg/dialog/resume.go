package dialog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
)

// Resume continues a thread from its latest checkpoint.
//
// Behavior depends on the checkpoint's shape:
//   - The thread is waiting at an interrupt node and WithInput was supplied:
//     the input is applied by that node and execution continues.
//   - The thread is waiting and no input was supplied: the same prompt is
//     re-surfaced in a suspended Outcome without executing anything.
//   - The thread is not waiting (a crash mid-turn): execution continues from
//     the node after the last completed one; any supplied input is ignored.
//
// Example:
//
//	out, err := compiled.Resume(ctx, store, "thread-123",
//	    dialog.WithInput(dialog.Input{"resposta": text}))
func (cg *CompiledGraph[S]) Resume(ctx Context, store checkpoint.Store, threadID string, opts ...ResumeOption) (Outcome[S], error) {
	var zero Outcome[S]

	if ctx == nil {
		return zero, ErrNilContext
	}

	cfg := resumeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	cp, err := latestCheckpoint(store, threadID)
	if err != nil {
		return zero, err
	}

	var state S
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	if cp.Waiting && !cfg.hasInput {
		// Nothing to apply. Re-surface the stored prompt so the caller can
		// collect input again.
		return Outcome[S]{
			State:     state,
			Interrupt: &Interrupt{NodeID: cp.NodeID, Prompt: cp.Prompt},
		}, nil
	}

	startNode := cp.NextNode
	if startNode != END && !cg.HasNode(startNode) {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResumeNode, startNode)
	}

	runCfg := defaultRunConfig()
	for _, opt := range cfg.runOpts {
		opt(&runCfg)
	}
	runCfg.checkpointStore = store
	runCfg.threadID = threadID
	runCfg.sequence = cp.Sequence

	if cp.Waiting && cfg.hasInput {
		runCfg.resumeInput = cfg.input
		runCfg.resumeTarget = cp.NodeID
		if runCfg.resumeInput == nil {
			runCfg.resumeInput = Input{}
		}
	}

	return cg.execute(ctx, state, startNode, &runCfg)
}

// Waiting reports whether the thread's latest checkpoint is a suspension
// point, along with the stored prompt. A thread with no checkpoints is not
// waiting.
func Waiting(store checkpoint.Store, threadID string) (bool, string, error) {
	cp, err := latestCheckpoint(store, threadID)
	if errors.Is(err, ErrNoCheckpoints) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return cp.Waiting, cp.Prompt, nil
}

// LatestState loads and deserializes the state from the thread's latest
// checkpoint without executing anything.
func LatestState[S any](store checkpoint.Store, threadID string) (S, error) {
	var zero S

	cp, err := latestCheckpoint(store, threadID)
	if err != nil {
		return zero, err
	}

	var state S
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}
	return state, nil
}

// latestCheckpoint loads and validates the most recent checkpoint for a
// thread.
func latestCheckpoint(store checkpoint.Store, threadID string) (*checkpoint.Checkpoint, error) {
	infos, err := store.List(threadID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCheckpoints, threadID)
	}

	latest := infos[len(infos)-1]
	data, err := store.Load(threadID, latest.NodeID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	if cp.Version != checkpoint.Version {
		return nil, fmt.Errorf("%w: got %d, expected %d",
			ErrCheckpointVersionMismatch, cp.Version, checkpoint.Version)
	}

	return cp, nil
}

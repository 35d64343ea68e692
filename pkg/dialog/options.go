package dialog

import (
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/observability"
)

// runConfig holds configuration for graph execution.
type runConfig struct {
	maxIterations   int
	checkpointStore checkpoint.Store
	threadID        string
	sequence        int

	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	// resumeInput carries the human payload for an interrupted thread.
	// Consumed exactly once, by the node named in resumeTarget.
	resumeInput  Input
	resumeTarget string
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 100,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxIterations sets the maximum number of node executions per turn.
// Default: 100
//
// This prevents infinite loops from hanging forever. If a turn
// exceeds this limit, Run returns ErrMaxIterations.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithCheckpointing enables per-node checkpointing to the given store.
// Requires WithThreadID to identify the conversation thread.
func WithCheckpointing(store checkpoint.Store) RunOption {
	return func(c *runConfig) {
		c.checkpointStore = store
	}
}

// WithThreadID sets the conversation thread key used for checkpointing.
func WithThreadID(id string) RunOption {
	return func(c *runConfig) {
		c.threadID = id
	}
}

// WithMetrics sets the metrics recorder for this run.
// Default: no-op.
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry span creation for the turn and each node.
func WithTracing(sm observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if sm != nil {
			c.spans = sm
			c.tracingEnabled = true
		}
	}
}

// resumeConfig holds configuration for Resume.
type resumeConfig struct {
	input    Input
	hasInput bool
	runOpts  []RunOption
}

// ResumeOption configures resume behavior.
type ResumeOption func(*resumeConfig)

// WithInput supplies the externally collected payload for the waiting
// interrupt node. Without it, resuming a waiting thread re-surfaces the
// same prompt.
func WithInput(in Input) ResumeOption {
	return func(c *resumeConfig) {
		c.input = in
		c.hasInput = true
	}
}

// WithRunOptions forwards run options (metrics, tracing, iteration limits)
// to the execution that continues after the resume point.
func WithRunOptions(opts ...RunOption) ResumeOption {
	return func(c *resumeConfig) {
		c.runOpts = append(c.runOpts, opts...)
	}
}

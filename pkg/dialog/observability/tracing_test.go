package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs an in-memory span exporter and returns it plus a
// cleanup function.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("dialog")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartTurnSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with thread attribute", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartTurnSpan(ctx, "thread-123")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "dialog.turn", s.Name)

		var threadID string
		for _, attr := range s.Attributes {
			if attr.Key == "thread.id" {
				threadID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "thread-123", threadID)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := sm.StartTurnSpan(ctx, "thread-456")

		assert.NotEqual(t, ctx, newCtx)

		span.End()
		require.Len(t, exporter.GetSpans(), 1)
	})
}

func TestStartNodeSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with node name suffix", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartNodeSpan(ctx, "chat")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "dialog.node.chat", s.Name)

		var nodeID string
		for _, attr := range s.Attributes {
			if attr.Key == "node.id" {
				nodeID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "chat", nodeID)
	})

	t.Run("node spans are children of the turn span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, turnSpan := sm.StartTurnSpan(ctx, "thread-1")

		_, nodeSpan := sm.StartNodeSpan(ctx, "router")
		nodeSpan.End()

		turnSpan.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		var nodeSpanData *tracetest.SpanStub
		for i := range spans {
			if spans[i].Name == "dialog.node.router" {
				nodeSpanData = &spans[i]
				break
			}
		}
		require.NotNil(t, nodeSpanData)
		assert.True(t, nodeSpanData.Parent.IsValid())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("sets OK status for nil error", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartTurnSpan(ctx, "thread-1")

		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		assert.Equal(t, codes.Ok, spans[0].Status.Code)
		assert.Equal(t, "", spans[0].Status.Description)
	})

	t.Run("sets Error status and records error", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		_, span := sm.StartTurnSpan(ctx, "thread-2")
		testErr := errors.New("something went wrong")

		sm.EndSpanWithError(span, testErr)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, codes.Error, s.Status.Code)
		assert.Equal(t, "something went wrong", s.Status.Description)

		require.NotEmpty(t, s.Events)
		found := false
		for _, event := range s.Events {
			if event.Name == "exception" {
				found = true
			}
		}
		assert.True(t, found, "Expected exception event")
	})

	t.Run("nil span does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("test"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("adds event to current span", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := sm.StartTurnSpan(ctx, "thread-1")

		sm.AddSpanEvent(ctx, "checkpoint_saved",
			attribute.String("node_id", "confirm"),
			attribute.Int64("size_bytes", 1024),
		)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.NotEmpty(t, spans[0].Events)

		var found bool
		for _, event := range spans[0].Events {
			if event.Name == "checkpoint_saved" {
				found = true
				var nodeID string
				var sizeBytes int64
				for _, attr := range event.Attributes {
					switch attr.Key {
					case "node_id":
						nodeID = attr.Value.AsString()
					case "size_bytes":
						sizeBytes = attr.Value.AsInt64()
					}
				}
				assert.Equal(t, "confirm", nodeID)
				assert.Equal(t, int64(1024), sizeBytes)
			}
		}
		assert.True(t, found, "Expected to find checkpoint_saved event")
	})

	t.Run("no panic with no current span", func(t *testing.T) {
		ctx := context.Background()
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(ctx, "test_event")
		})
	})
}

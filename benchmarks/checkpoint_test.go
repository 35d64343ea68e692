package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
)

// transcriptState mimics the size of a real conversation checkpoint: a
// running transcript plus collected form answers.
type transcriptState struct {
	Messages []string
	Answers  map[string]string
	Turn     int
}

func createTranscriptState() transcriptState {
	msgs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		msgs = append(msgs, strings.Repeat("resposta sobre menopausa ", 10))
	}
	return transcriptState{
		Messages: msgs,
		Answers: map[string]string{
			"nome":             "Maria",
			"idade":            "52",
			"email":            "maria@example.org",
			"sintomas_fisicos": "ondas de calor, insônia",
		},
		Turn: 20,
	}
}

// BenchmarkMemoryStore_Save measures in-memory checkpoint save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	data, _ := json.Marshal(createTranscriptState())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("thread-1", "chat", data)
	}
}

// BenchmarkMemoryStore_Load measures in-memory checkpoint load.
func BenchmarkMemoryStore_Load(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	data, _ := json.Marshal(createTranscriptState())
	_ = store.Save("thread-1", "chat", data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load("thread-1", "chat")
	}
}

// BenchmarkSQLiteStore_Save measures SQLite checkpoint save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	data, _ := json.Marshal(createTranscriptState())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("thread-1", nodeID(i%100), data)
	}
}

// BenchmarkSQLiteStore_Load measures SQLite checkpoint load.
func BenchmarkSQLiteStore_Load(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	data, _ := json.Marshal(createTranscriptState())
	_ = store.Save("thread-1", "chat", data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load("thread-1", "chat")
	}
}

// BenchmarkRun_WithCheckpointing measures execution with checkpointing.
func BenchmarkRun_WithCheckpointing(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	compiled := mustCompileTranscript(buildTranscriptGraph(5))
	ctx := dialog.NewContext(context.Background())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, transcriptState{},
			dialog.WithCheckpointing(store),
			dialog.WithThreadID(fmt.Sprintf("thread-%d", i)),
		)
	}
}

// BenchmarkRun_WithoutCheckpointing is the baseline without checkpointing.
func BenchmarkRun_WithoutCheckpointing(b *testing.B) {
	compiled := mustCompileTranscript(buildTranscriptGraph(5))
	ctx := dialog.NewContext(context.Background())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, transcriptState{})
	}
}

// BenchmarkStateSerialization measures the marshal cost per checkpoint.
func BenchmarkStateSerialization(b *testing.B) {
	state := createTranscriptState()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(state)
	}
}

// Helper functions

func createSQLiteStore(b *testing.B) (*checkpoint.SQLiteStore, func()) {
	b.Helper()
	tmpFile, err := os.CreateTemp("", "bench-*.db")
	if err != nil {
		b.Fatal(err)
	}
	tmpFile.Close()

	store, err := checkpoint.NewSQLiteStore(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		b.Fatal(err)
	}

	return store, func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
}

func noopTranscriptNode(ctx dialog.Context, s transcriptState) (transcriptState, error) {
	return s, nil
}

func buildTranscriptGraph(n int) *dialog.Graph[transcriptState] {
	graph := dialog.NewGraph[transcriptState]()
	for i := 0; i < n; i++ {
		graph.AddNode(nodeID(i), noopTranscriptNode)
	}
	for i := 0; i < n-1; i++ {
		graph.AddEdge(nodeID(i), nodeID(i+1))
	}
	graph.AddEdge(nodeID(n-1), dialog.END)
	graph.SetEntry(nodeID(0))
	return graph
}

func mustCompileTranscript(g *dialog.Graph[transcriptState]) *dialog.CompiledGraph[transcriptState] {
	compiled, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return compiled
}

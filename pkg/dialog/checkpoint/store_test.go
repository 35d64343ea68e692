package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lets every Store implementation share one conformance suite.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store {
		return NewMemoryStore()
	},
	"sqlite": func(t *testing.T) Store {
		s, err := NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return s
	},
}

func TestStore_SaveLoad(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			err := store.Save("t1", "node-a", []byte(`{"v":1}`))
			require.NoError(t, err)

			data, err := store.Load("t1", "node-a")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"v":1}`), data)
		})
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			_, err := store.Load("t1", "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SaveOverwritesAndBumpsSequence(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			require.NoError(t, store.Save("t1", "a", []byte("v1")))
			require.NoError(t, store.Save("t1", "b", []byte("v2")))
			require.NoError(t, store.Save("t1", "a", []byte("v3")))

			data, err := store.Load("t1", "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("v3"), data)

			// Re-saving "a" made it the latest checkpoint.
			infos, err := store.List("t1")
			require.NoError(t, err)
			require.Len(t, infos, 2)
			assert.Equal(t, "a", infos[len(infos)-1].NodeID)
		})
	}
}

func TestStore_ListOrderedBySequence(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			require.NoError(t, store.Save("t1", "a", []byte("1")))
			require.NoError(t, store.Save("t1", "b", []byte("2")))
			require.NoError(t, store.Save("t1", "c", []byte("3")))

			infos, err := store.List("t1")
			require.NoError(t, err)
			require.Len(t, infos, 3)
			assert.Equal(t, "a", infos[0].NodeID)
			assert.Equal(t, "b", infos[1].NodeID)
			assert.Equal(t, "c", infos[2].NodeID)
			assert.Less(t, infos[0].Sequence, infos[1].Sequence)
			assert.Less(t, infos[1].Sequence, infos[2].Sequence)
		})
	}
}

func TestStore_ListEmptyThread(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			infos, err := store.List("nobody")
			require.NoError(t, err)
			assert.Empty(t, infos)
		})
	}
}

func TestStore_ThreadIsolation(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			require.NoError(t, store.Save("t1", "a", []byte("one")))
			require.NoError(t, store.Save("t2", "a", []byte("two")))

			data, err := store.Load("t1", "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("one"), data)

			require.NoError(t, store.DeleteThread("t1"))

			_, err = store.Load("t1", "a")
			assert.ErrorIs(t, err, ErrNotFound)

			data, err = store.Load("t2", "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), data)
		})
	}
}

func TestStore_DeleteMissingIsNil(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			assert.NoError(t, store.Delete("t1", "missing"))
			assert.NoError(t, store.DeleteThread("missing"))
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			require.NoError(t, store.Close())

			assert.ErrorIs(t, store.Save("t1", "a", []byte("x")), ErrStoreClosed)
			_, err := store.Load("t1", "a")
			assert.ErrorIs(t, err, ErrStoreClosed)
			_, err = store.List("t1")
			assert.ErrorIs(t, err, ErrStoreClosed)
		})
	}
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	cp := New("t1", "ask", 3, []byte(`{"nome":"Maria"}`), "ask").
		WithWaiting("Qual é o seu nome?").
		WithPrevNode("router")

	data, err := cp.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, Version, got.Version)
	assert.Equal(t, "t1", got.ThreadID)
	assert.Equal(t, "ask", got.NodeID)
	assert.Equal(t, 3, got.Sequence)
	assert.Equal(t, "ask", got.NextNode)
	assert.True(t, got.Waiting)
	assert.Equal(t, "Qual é o seu nome?", got.Prompt)
	assert.Equal(t, "router", got.PrevNodeID)
	assert.JSONEq(t, `{"nome":"Maria"}`, string(got.State))
}

func TestCheckpoint_NotWaitingByDefault(t *testing.T) {
	cp := New("t1", "chat", 1, []byte(`{}`), "evaluate")

	data, err := cp.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.False(t, got.Waiting)
	assert.Empty(t, got.Prompt)
}

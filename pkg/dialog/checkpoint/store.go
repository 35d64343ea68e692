// Package checkpoint provides persistent thread state storage for crash
// recovery and for suspended conversations awaiting human input.
package checkpoint

import (
	"errors"
	"time"
)

// Store persists checkpoints per conversation thread.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a checkpoint for a thread at a specific node.
	// Overwrites if a checkpoint for (threadID, nodeID) already exists.
	Save(threadID, nodeID string, data []byte) error

	// Load retrieves a checkpoint.
	// Returns ErrNotFound if the checkpoint doesn't exist.
	Load(threadID, nodeID string) ([]byte, error)

	// List returns all checkpoints for a thread, ordered by sequence.
	// Returns empty slice (not error) if the thread has no checkpoints.
	List(threadID string) ([]Info, error)

	// Delete removes a specific checkpoint.
	// Returns nil if the checkpoint doesn't exist.
	Delete(threadID, nodeID string) error

	// DeleteThread removes all checkpoints for a thread.
	// Returns nil if the thread has no checkpoints.
	DeleteThread(threadID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading full state.
type Info struct {
	ThreadID  string
	NodeID    string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates a checkpoint doesn't exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")
)

package persist

import (
	"context"
	"errors"
)

// ErrMalformed is returned by Load when stored data exists but cannot be
// decoded, or carries a schema version newer than this build understands.
// Callers treat it as "no snapshot": the store falls back to its default
// initial state and reports the condition to its diagnostic sink. It never
// fails startup.
var ErrMalformed = errors.New("persist: malformed snapshot")

// Repository mirrors store state to an external sink.
// Implementations persist snapshots atomically: a reader never observes a
// partially written snapshot.
type Repository interface {
	// Load retrieves the last saved snapshot.
	// Returns (nil, nil) if no snapshot exists.
	// Returns (nil, ErrMalformed) if stored data cannot be used.
	// Any other error is an actual read failure.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot. Best-effort from the store's point of
	// view: a failure must not roll back the in-memory mutation that
	// triggered it.
	Save(ctx context.Context, snapshot Snapshot) error
}

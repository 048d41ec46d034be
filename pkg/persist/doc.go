// Package persist mirrors store state to durable storage.
//
// A Repository loads a Snapshot at startup and saves one after committed
// mutations. Two implementations are provided: FileRepository writes a
// single JSON document with atomic rename, and BadgerRepository keeps one
// key per entity in an embedded Badger database. Debounced wraps either
// with a trailing-edge batching policy.
//
// Persistence is deliberately best-effort: a failed save never invalidates
// the in-memory mutation that triggered it, and a missing or malformed
// snapshot on load means "start from the default state", not an error.
//
// # Usage
//
//	repo := persist.NewFileRepository("/var/lib/taskstore")
//
//	snap, err := repo.Load(ctx)
//	if err != nil && !errors.Is(err, persist.ErrMalformed) {
//	    return err
//	}
//	// snap == nil: start fresh
//
//	// ... after a commit ...
//	if err := repo.Save(ctx, snap); err != nil {
//	    logger.Error("snapshot write failed", log.Err(err))
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package persist

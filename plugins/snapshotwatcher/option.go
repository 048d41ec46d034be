package snapshotwatcher

import "github.com/bft-labs/taskstore/pkg/store"

// WithSnapshotWatcher returns a store Option that reloads state when the
// snapshot file at cfg.Path changes externally.
//
// Usage:
//
//	repo := persist.NewFileRepository(dir)
//	st, err := store.New(
//	    store.WithRepository(repo),
//	    snapshotwatcher.WithSnapshotWatcher(snapshotwatcher.DefaultConfig(repo.Path())),
//	)
func WithSnapshotWatcher(cfg Config) store.Option {
	return store.WithPlugin(New(cfg))
}

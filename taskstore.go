// Package taskstore re-exports the most commonly used types from the
// sub-packages for convenient access. Import pkg/store, pkg/result,
// pkg/persist, and pkg/log directly for the full surface.
//
// Example usage:
//
//	st, err := taskstore.New(
//	    store.WithRepository(persist.NewFileRepository(dir)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := st.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
package taskstore

import (
	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/persist"
	"github.com/bft-labs/taskstore/pkg/store"
)

type (
	// Store is the reactive state container from pkg/store.
	Store = store.Store

	// Task is the domain entity managed by a Store.
	Task = store.Task

	// Snapshot is an immutable point-in-time view of store state.
	Snapshot = store.Snapshot

	// Option configures a Store.
	Option = store.Option

	// Repository is the persistence adapter interface from pkg/persist.
	Repository = persist.Repository

	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger
)

// New creates a Store with the given options. See store.New.
func New(opts ...Option) (*Store, error) {
	return store.New(opts...)
}

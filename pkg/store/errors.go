package store

import "errors"

// Infrastructure errors returned by the store's lifecycle surface.
// Domain failures never appear here; they ride in Results.
var (
	// ErrClosed is returned when an operation is invoked after Close().
	ErrClosed = errors.New("taskstore: store closed")

	// ErrAlreadyStarted is returned when Start() is called twice.
	ErrAlreadyStarted = errors.New("taskstore: already started")

	// ErrNoRepository is returned by Reload() when no persistence
	// repository is configured.
	ErrNoRepository = errors.New("taskstore: no repository configured")
)

// errNoChange signals an idempotent no-op from inside a mutator: the action
// succeeds, but no new version is published and no subscriber is notified.
var errNoChange = errors.New("no change")

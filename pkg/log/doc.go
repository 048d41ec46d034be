// Package log provides the structured logging interface used across
// taskstore, with adapters for zerolog and a no-op default.
//
// The store never logs through a concrete library directly; components take
// a log.Logger so embedding applications can route diagnostics wherever
// they like:
//
//	st, err := store.New(store.WithLogger(log.NewZerologAdapter()))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log

// Package store provides a reactive state container for task entities with
// explicit Result-based error handling.
//
// State is owned by the container and only changes through actions: named,
// single-responsibility operations that validate first, mutate a clone of
// state second, and return a result.Result. Expected failures (validation,
// unknown ids, failed external calls, cancellation) come back in the error
// variant of the Result; they are never thrown. Reads go through immutable
// snapshots, derived values through selectors, and change notification
// through subscriptions.
//
// # Usage
//
//	st, err := store.New(
//	    store.WithLogger(log.NewZerologAdapter()),
//	    store.WithRepository(persist.NewFileRepository(dir)),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := st.Start(ctx); err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	res := st.Create(ctx, store.CreatePayload{Name: "Buy milk"})
//	if !res.OK() {
//	    // branch on res.Code / res.Message
//	}
//
// Mutations are serialized by an internal queue, so a Store is safe for
// concurrent callers; reads never block on it. Asynchronous actions
// (Refresh) do not hold the queue while awaiting their external call, and
// racing writes to the same entity resolve last-committed-wins.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package store

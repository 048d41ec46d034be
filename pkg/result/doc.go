// Package result provides the discriminated success/failure value returned
// by every state-mutating operation in taskstore.
//
// Expected domain failures (validation, missing identifiers, failed external
// calls, cancellation) are never returned as Go errors or panics from
// actions. They come back as the error variant of a Result, so every caller
// branches explicitly:
//
//	res := st.Create(ctx, store.CreatePayload{Name: "Buy milk"})
//	if !res.OK() {
//	    fmt.Println(res.Code, res.Message)
//	    return
//	}
//	fmt.Println(res.Data.ID)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package result

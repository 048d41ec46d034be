package store_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/taskstore/pkg/store"
)

// Example demonstrates the Result-based action flow: every mutation returns
// a value the caller branches on, and expected failures are never thrown.
func Example() {
	st, err := store.New()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx := context.Background()

	created := st.Create(ctx, store.CreatePayload{Name: "Buy milk"})
	fmt.Println(created.Status, created.Data.ID, created.Data.Name, created.Data.Completed)

	toggled := st.ToggleCompleted(ctx, created.Data.ID)
	fmt.Println(toggled.Status, toggled.Data.Completed)

	deleted := st.Delete(ctx, created.Data.ID)
	fmt.Println(deleted.Status)

	again := st.Delete(ctx, created.Data.ID)
	fmt.Println(again.Status, again.Message)

	// Output:
	// ok 1 Buy milk false
	// ok true
	// ok
	// error not found
}

// Example_subscribe shows change notification: subscribers receive the
// committed snapshot after each mutation.
func Example_subscribe() {
	st, _ := store.New()
	ctx := context.Background()

	unsubscribe := st.Subscribe(func(snap store.Snapshot) {
		fmt.Printf("version %d: %d task(s)\n", snap.Version, snap.Len())
	})
	defer unsubscribe()

	st.Create(ctx, store.CreatePayload{Name: "first"})
	st.Create(ctx, store.CreatePayload{Name: "second"})

	// Output:
	// version 1: 1 task(s)
	// version 2: 2 task(s)
}

// Example_selector shows memoized derived values.
func Example_selector() {
	st, _ := store.New()
	ctx := context.Background()

	remaining := store.NewSelector(st, func(snap store.Snapshot) int {
		return len(store.Active(snap))
	})

	st.Create(ctx, store.CreatePayload{Name: "write docs"})
	created := st.Create(ctx, store.CreatePayload{Name: "ship it"})
	fmt.Println(remaining.Get())

	st.SetCompleted(ctx, created.Data.ID, true)
	fmt.Println(remaining.Get())

	// Output:
	// 2
	// 1
}

package store

import "sync"

// Select computes a derived value from the current state. The selector
// function must be pure: same snapshot in, same value out, no mutation.
// The value is recomputed on every call; use NewSelector for memoization.
func Select[T any](s *Store, fn func(Snapshot) T) T {
	return fn(s.State())
}

// Selector memoizes a derived value against the store's commit counter.
// Get recomputes lazily when a newer version has been committed since the
// cached value was produced; between commits the cached value is returned.
// Because every recomputation reads one committed snapshot, a selector can
// never observe another selector's stale cache.
type Selector[T any] struct {
	store   *Store
	compute func(Snapshot) T

	mu      sync.Mutex
	cached  bool
	version uint64
	value   T
}

// NewSelector registers a memoized selector over the store.
func NewSelector[T any](s *Store, compute func(Snapshot) T) *Selector[T] {
	return &Selector[T]{store: s, compute: compute}
}

// Get returns the derived value for the current state.
func (sel *Selector[T]) Get() T {
	snap := sel.store.State()

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.cached && sel.version == snap.Version {
		return sel.value
	}
	sel.value = sel.compute(snap)
	sel.version = snap.Version
	sel.cached = true
	return sel.value
}

// Ready-made selector functions for the common derived reads. Usable with
// Select or NewSelector: store.Select(st, store.Active).

// Active returns the tasks not yet completed.
func Active(s Snapshot) []Task {
	var out []Task
	for _, t := range s.Tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns the tasks marked done.
func Completed(s Snapshot) []Task {
	var out []Task
	for _, t := range s.Tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the total number of tasks.
func Count(s Snapshot) int {
	return s.Len()
}

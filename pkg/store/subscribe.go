package store

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// Subscribe registers a callback invoked with the new snapshot after each
// committed mutation, in registration order, synchronously on the
// committing goroutine. Idempotent no-op actions do not notify.
//
// The subscription layer only delivers state; it is not a channel for
// business logic, and callbacks must not invoke actions on the same store
// (they would deadlock on the mutation queue). A panicking callback is
// reported to the diagnostic sink and does not affect later callbacks or
// the triggering action's Result.
//
// The returned function removes the subscription. It is safe to call more
// than once.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	s.subSeq++
	id := s.subSeq
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

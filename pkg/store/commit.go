package store

import (
	"context"
	"fmt"

	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/persist"
	"github.com/bft-labs/taskstore/pkg/result"
)

// commit is the single write path: every action funnels its mutation
// through here. The mutex serializes mutations (the explicit mutation queue
// of the concurrency model), the mutator runs against a clone, and the
// clone is published atomically, so readers only ever observe the prior
// version or the fully applied next one.
//
// Caller cancellation is checked immediately before the mutation step.
// A mutator that returns an error or panics discards the clone; nothing is
// published and no subscriber fires.
func (s *Store) commit(ctx context.Context, action string, apply func(st *state) error) error {
	if ctx.Err() != nil {
		return result.NewError(result.CodeCanceled, "canceled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	cur := s.cur.Load()
	next := cur.clone()
	if err := runMutator(action, apply, next); err != nil {
		if err == errNoChange {
			return nil
		}
		return err
	}

	next.version = cur.version + 1
	s.cur.Store(next)
	s.logger.Debug("mutation committed",
		log.Str("action", action),
		log.Uint64("version", next.version))

	snap := next.snapshot()
	s.notify(snap)
	s.persistLocked(next)
	return nil
}

// runMutator converts a mutator panic into an error so a failing action
// rolls back instead of tearing down the process with state half applied.
func runMutator(action string, apply func(*state) error, next *state) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panicked: %v", action, r)
		}
	}()
	return apply(next)
}

// notify delivers the committed snapshot to subscribers in registration
// order, on the committing goroutine, before the action's Result returns.
// A panicking callback is reported to the diagnostic sink and never blocks
// later callbacks or taints the Result.
func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.invoke(sub, snap)
	}
}

func (s *Store) invoke(sub subscriber, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked",
				log.Uint64("subscriber", sub.id),
				log.Any("panic", r))
		}
	}()
	sub.fn(snap)
}

// persistLocked mirrors the committed state to the repository, if any.
// Best-effort: a failed save is reported to the sink and never rolls back
// the commit. Runs on a background context so a canceled caller cannot
// abort persistence of an already committed mutation.
func (s *Store) persistLocked(st *state) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(context.Background(), toDocument(st)); err != nil {
		s.logger.Error("snapshot save failed", log.Err(err))
	}
}

func toDocument(st *state) persist.Snapshot {
	tasks := make(map[string]persist.Record, len(st.tasks))
	for id, t := range st.tasks {
		tasks[id] = persist.Record{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
	}
	return persist.Snapshot{
		SchemaVersion: persist.SchemaVersion,
		Tasks:         tasks,
		SelectedID:    st.selectedID,
	}
}

func fromDocument(doc *persist.Snapshot) *state {
	st := newState()
	for id, rec := range doc.Tasks {
		st.tasks[id] = Task{
			ID:        rec.ID,
			Name:      rec.Name,
			Completed: rec.Completed,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
	}
	if _, ok := st.tasks[doc.SelectedID]; ok {
		st.selectedID = doc.SelectedID
	}
	return st
}

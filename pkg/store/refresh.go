package store

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/taskstore/pkg/result"
)

// Source is the external collaborator an asynchronous refresh pulls from,
// typically a network API or another process. Fetch should honor ctx.
type Source interface {
	Fetch(ctx context.Context) ([]Task, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Task, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]Task, error) {
	return f(ctx)
}

// Refresh pulls tasks from the configured Source and upserts them into
// state, returning the number of fetched entities.
//
// The mutation queue is never held across the fetch: a commit raises the
// loading counter, the store awaits the source, and a second commit merges
// the outcome. Other actions may interleave in between; racing writes to
// the same entity resolve last-committed-wins. Caller cancellation is
// checked once more immediately before the merge; a canceled refresh skips
// the merge but still lowers the loading counter.
func (s *Store) Refresh(ctx context.Context) result.Result[int] {
	if s.source == nil {
		return result.Err[int](result.CodeValidation, "no source configured")
	}

	if err := s.commit(ctx, "refresh", func(st *state) error {
		st.loading++
		return nil
	}); err != nil {
		return result.FromError[int](err)
	}

	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		s.finishRefresh(nil)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result.Err[int](result.CodeCanceled, "canceled")
		}
		return result.Errf[int](result.CodeExternal, "fetch: %v", err)
	}

	if ctx.Err() != nil {
		s.finishRefresh(nil)
		return result.Err[int](result.CodeCanceled, "canceled")
	}

	s.finishRefresh(fetched)
	return result.Ok(len(fetched))
}

// finishRefresh lowers the loading counter and merges fetched entities, if
// any. It commits on a background context: once a refresh resolves, its
// outcome is applied whether or not the original caller is still around.
func (s *Store) finishRefresh(fetched []Task) {
	_ = s.commit(context.Background(), "refresh", func(st *state) error {
		if st.loading > 0 {
			st.loading--
		}
		now := time.Now().UTC()
		for _, t := range fetched {
			if t.ID == "" {
				continue
			}
			if existing, ok := st.tasks[t.ID]; ok {
				t.CreatedAt = existing.CreatedAt
			} else if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			if t.UpdatedAt.IsZero() {
				t.UpdatedAt = now
			}
			st.tasks[t.ID] = t
		}
		s.bumpSeqLocked(st)
		return nil
	})
}

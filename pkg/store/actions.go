package store

import (
	"context"
	"strings"
	"time"

	"github.com/bft-labs/taskstore/pkg/result"
)

// CreatePayload carries the fields needed to create a task.
type CreatePayload struct {
	Name string
}

// UpdatePayload carries a partial update. Nil fields are left untouched;
// an update with no populated fields succeeds without publishing a commit.
type UpdatePayload struct {
	Name *string
}

// Create adds a new task. The name must be non-empty after trimming and
// unique among existing tasks.
func (s *Store) Create(ctx context.Context, p CreatePayload) result.Result[Task] {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return result.Err[Task](result.CodeValidation, "name must not be empty")
	}

	var created Task
	err := s.commit(ctx, "create", func(st *state) error {
		if err := checkNameFree(st, name, ""); err != nil {
			return err
		}
		now := time.Now().UTC()
		created = Task{
			ID:        s.newID(st),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		st.tasks[created.ID] = created
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(created)
}

// Update applies a partial update to the task with the given id.
func (s *Store) Update(ctx context.Context, id string, p UpdatePayload) result.Result[Task] {
	var updated Task
	err := s.commit(ctx, "update", func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return result.NewError(result.CodeNotFound, "not found")
		}
		updated = t
		if p.Name == nil {
			return errNoChange
		}
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return result.NewError(result.CodeValidation, "name must not be empty")
		}
		if err := checkNameFree(st, name, id); err != nil {
			return err
		}
		t.Name = name
		t.UpdatedAt = time.Now().UTC()
		st.tasks[id] = t
		updated = t
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(updated)
}

// Delete removes the task with the given id. Deleting an id that no longer
// exists is an error, not a no-op: repeat deletes surface caller bugs.
func (s *Store) Delete(ctx context.Context, id string) result.Result[Task] {
	var deleted Task
	err := s.commit(ctx, "delete", func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return result.NewError(result.CodeNotFound, "not found")
		}
		deleted = t
		delete(st.tasks, id)
		if st.selectedID == id {
			st.selectedID = ""
		}
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(deleted)
}

// SelectTask marks the task with the given id as the current selection.
// Selecting the already-selected id is an idempotent success: no new
// version is published.
func (s *Store) SelectTask(ctx context.Context, id string) result.Result[Task] {
	var picked Task
	err := s.commit(ctx, "select", func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return result.NewError(result.CodeNotFound, "not found")
		}
		picked = t
		if st.selectedID == id {
			return errNoChange
		}
		st.selectedID = id
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(picked)
}

// ClearSelection drops the current selection. Idempotent when nothing is
// selected.
func (s *Store) ClearSelection(ctx context.Context) result.Result[struct{}] {
	err := s.commit(ctx, "clear-selection", func(st *state) error {
		if st.selectedID == "" {
			return errNoChange
		}
		st.selectedID = ""
		return nil
	})
	if err != nil {
		return result.FromError[struct{}](err)
	}
	return result.Ok(struct{}{})
}

// ToggleCompleted flips the completion flag of the task with the given id.
func (s *Store) ToggleCompleted(ctx context.Context, id string) result.Result[Task] {
	var toggled Task
	err := s.commit(ctx, "toggle-completed", func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return result.NewError(result.CodeNotFound, "not found")
		}
		t.Completed = !t.Completed
		t.UpdatedAt = time.Now().UTC()
		st.tasks[id] = t
		toggled = t
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(toggled)
}

// SetCompleted sets the completion flag to an explicit value. When the task
// is already in the target state the call is an idempotent success and no
// new version is published.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) result.Result[Task] {
	var updated Task
	err := s.commit(ctx, "set-completed", func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return result.NewError(result.CodeNotFound, "not found")
		}
		updated = t
		if t.Completed == completed {
			return errNoChange
		}
		t.Completed = completed
		t.UpdatedAt = time.Now().UTC()
		st.tasks[id] = t
		updated = t
		return nil
	})
	if err != nil {
		return result.FromError[Task](err)
	}
	return result.Ok(updated)
}

// checkNameFree rejects names already used by a task other than excludeID.
func checkNameFree(st *state, name, excludeID string) error {
	for id, t := range st.tasks {
		if id != excludeID && t.Name == name {
			return result.Errorf(result.CodeValidation, "task %q already exists", name)
		}
	}
	return nil
}

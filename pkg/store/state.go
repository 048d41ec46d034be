package store

import (
	"sort"
	"time"
)

// Task is a domain entity owned by the store. Instances handed out through
// Snapshot are detached copies; mutating them has no effect on the store.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// state is the canonical aggregate. It is only ever mutated on a clone
// inside the commit path; the store publishes clones through an atomic
// pointer, so a published state value is effectively frozen.
type state struct {
	version    uint64
	tasks      map[string]Task
	selectedID string
	loading    int
}

func newState() *state {
	return &state{tasks: map[string]Task{}}
}

func (st *state) clone() *state {
	tasks := make(map[string]Task, len(st.tasks))
	for id, t := range st.tasks {
		tasks[id] = t
	}
	return &state{
		version:    st.version,
		tasks:      tasks,
		selectedID: st.selectedID,
		loading:    st.loading,
	}
}

// snapshot builds the read-only projection for this state version.
func (st *state) snapshot() Snapshot {
	tasks := make([]Task, 0, len(st.tasks))
	for _, t := range st.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return Snapshot{
		Version:    st.version,
		Tasks:      tasks,
		SelectedID: st.selectedID,
		Loading:    st.loading,
	}
}

// Snapshot is an immutable point-in-time view of store state. It is a deep
// copy: callers can hold it across commits and read consistent data, and
// nothing they do to it reaches the store.
type Snapshot struct {
	// Version is the monotonic commit counter for this view.
	Version uint64

	// Tasks holds every entity, ordered by creation time.
	Tasks []Task

	// SelectedID is the currently selected entity id, or "".
	SelectedID string

	// Loading counts in-flight refreshes against external sources.
	Loading int
}

// Task returns the entity with the given id, if present.
func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Selected returns the currently selected entity, if any.
func (s Snapshot) Selected() (Task, bool) {
	if s.SelectedID == "" {
		return Task{}, false
	}
	return s.Task(s.SelectedID)
}

// Len returns the number of entities in the view.
func (s Snapshot) Len() int {
	return len(s.Tasks)
}

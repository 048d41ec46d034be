package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/persist"
)

// Store is a reactive state container for task entities. All mutation goes
// through its actions, which return Results; all reads go through immutable
// snapshots and selectors. A Store is safe for concurrent use.
//
// Construct one explicitly at application start and pass the handle to
// consumers. There is no package-level instance.
type Store struct {
	logger  log.Logger
	repo    persist.Repository
	flusher *persist.Debounced
	source  Source
	plugins []Plugin

	// mu is the mutation queue: it serializes the commit path and guards
	// started/closed and the id sequence.
	mu      sync.Mutex
	started bool
	closed  bool
	idSeq   uint64
	genID   func() string

	cur atomic.Pointer[state]

	subMu  sync.Mutex
	subSeq uint64
	subs   []subscriber
}

// New creates a Store with the given options. The instance starts empty;
// call Start to load a persisted snapshot and initialize plugins.
func New(opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.debounce < 0 {
		return nil, fmt.Errorf("taskstore: debounce interval must not be negative")
	}

	s := &Store{
		logger:  o.logger,
		source:  o.source,
		plugins: o.plugins,
		genID:   o.genID,
	}
	if s.genID == nil {
		s.genID = s.sequentialID
	}

	if o.repo != nil {
		s.repo = o.repo
		if o.debounce > 0 {
			s.flusher = persist.NewDebounced(o.repo, o.debounce, o.logger)
			s.repo = s.flusher
		}
	}

	s.cur.Store(newState())
	return s, nil
}

// Start loads the persisted snapshot, if a repository is configured, and
// initializes plugins in registration order. A missing or unusable snapshot
// is not an error: the store keeps its default empty state.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true

	if s.repo != nil {
		doc, err := s.repo.Load(ctx)
		switch {
		case errors.Is(err, persist.ErrMalformed):
			s.logger.Warn("stored snapshot unusable, starting from empty state", log.Err(err))
		case err != nil:
			s.started = false
			s.mu.Unlock()
			return fmt.Errorf("load snapshot: %w", err)
		case doc != nil:
			st := fromDocument(doc)
			st.version = s.cur.Load().version + 1
			s.cur.Store(st)
			s.bumpSeqLocked(st)
			s.logger.Info("snapshot loaded", log.Int("tasks", len(st.tasks)))
		}
	}
	s.mu.Unlock()

	cfg := PluginConfig{Store: s, Logger: s.logger}
	for i, p := range s.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = s.plugins[j].Shutdown(context.Background())
			}
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		s.logger.Info("plugin initialized", log.Str("plugin", p.Name()))
	}
	return nil
}

// Close shuts down plugins in reverse registration order and flushes any
// pending debounced snapshot. The repository itself belongs to whoever
// constructed it and is not closed here. Close is idempotent; actions
// invoked afterwards fail.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for i := len(s.plugins) - 1; i >= 0; i-- {
		p := s.plugins[i]
		if err := p.Shutdown(context.Background()); err != nil {
			s.logger.Error("plugin shutdown failed",
				log.Str("plugin", p.Name()),
				log.Err(err))
		}
	}

	if s.flusher != nil {
		if err := s.flusher.Close(); err != nil {
			s.logger.Error("final snapshot flush failed", log.Err(err))
			return err
		}
	}
	return nil
}

// State returns an immutable snapshot of the current state. It never blocks
// on the mutation queue.
func (s *Store) State() Snapshot {
	return s.cur.Load().snapshot()
}

// Version returns the current commit counter.
func (s *Store) Version() uint64 {
	return s.cur.Load().version
}

// Reload re-reads the persisted snapshot and replaces in-memory state with
// it, as a committed mutation: subscribers observe the change like any
// other. Used when the sink is modified externally (see the snapshotwatcher
// plugin). If the stored and in-memory state already agree, nothing is
// published.
func (s *Store) Reload(ctx context.Context) error {
	if s.repo == nil {
		return ErrNoRepository
	}

	doc, err := s.repo.Load(ctx)
	if errors.Is(err, persist.ErrMalformed) {
		s.logger.Warn("stored snapshot unusable, keeping in-memory state", log.Err(err))
		return nil
	}
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	return s.commit(ctx, "reload", func(st *state) error {
		loaded := fromDocument(doc)
		if st.selectedID == loaded.selectedID && tasksEqual(st.tasks, loaded.tasks) {
			return errNoChange
		}
		st.tasks = loaded.tasks
		st.selectedID = loaded.selectedID
		s.bumpSeqLocked(loaded)
		return nil
	})
}

// sequentialID is the default id generator: "1", "2", ... in creation
// order. Callers hold mu.
func (s *Store) sequentialID() string {
	s.idSeq++
	return strconv.FormatUint(s.idSeq, 10)
}

// newID returns an id unused in st. Callers hold mu.
func (s *Store) newID(st *state) string {
	for {
		id := s.genID()
		if _, exists := st.tasks[id]; !exists {
			return id
		}
	}
}

// bumpSeqLocked advances the sequential id counter past every numeric id in
// st, so ids minted after a load or reload never collide with persisted
// ones. Callers hold mu.
func (s *Store) bumpSeqLocked(st *state) {
	for id := range st.tasks {
		if n, err := strconv.ParseUint(id, 10, 64); err == nil && n > s.idSeq {
			s.idSeq = n
		}
	}
}

func tasksEqual(a, b map[string]Task) bool {
	if len(a) != len(b) {
		return false
	}
	for id, t := range a {
		other, ok := b[id]
		if !ok || !taskEqual(other, t) {
			return false
		}
	}
	return true
}

// taskEqual compares tasks with time.Equal so wall-clock values that
// round-tripped through JSON still match their in-memory originals.
func taskEqual(a, b Task) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Completed == b.Completed &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

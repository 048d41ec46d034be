package persist

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/taskstore/pkg/log"
)

// Debounced wraps a Repository with a trailing-edge write policy: Save
// records the latest snapshot and a timer flushes it after the interval.
// Bursts of commits collapse into a single write, and because only whole
// snapshots are buffered, the sink never sees a partial mutation. Close
// flushes whatever is pending, so the last committed state always reaches
// the sink.
type Debounced struct {
	repo     Repository
	interval time.Duration
	logger   log.Logger

	mu      sync.Mutex
	pending *Snapshot
	timer   *time.Timer
	closed  bool
}

// NewDebounced wraps repo with the given flush interval. Flush failures are
// reported to logger, never to callers of Save.
func NewDebounced(repo Repository, interval time.Duration, logger log.Logger) *Debounced {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Debounced{repo: repo, interval: interval, logger: logger}
}

// Load delegates to the wrapped repository.
func (d *Debounced) Load(ctx context.Context) (*Snapshot, error) {
	return d.repo.Load(ctx)
}

// Save buffers the snapshot and schedules a flush. It never returns an
// error; write failures surface through the logger when the flush runs.
func (d *Debounced) Save(ctx context.Context, snapshot Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.pending = &snapshot
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.flush)
	}
	return nil
}

// Close stops the timer and synchronously flushes any pending snapshot.
func (d *Debounced) Close() error {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if pending == nil {
		return nil
	}
	return d.repo.Save(context.Background(), *pending)
}

func (d *Debounced) flush() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if pending == nil {
		return
	}
	if err := d.repo.Save(context.Background(), *pending); err != nil {
		d.logger.Error("debounced snapshot write failed", log.Err(err))
	}
}

package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/persist"
)

// Option configures optional behavior of a Store.
type Option func(*options)

type options struct {
	logger   log.Logger
	repo     persist.Repository
	debounce time.Duration
	source   Source
	genID    func() string
	plugins  []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets the logger used for diagnostics, including out-of-band
// subscriber and persistence failures. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRepository enables persistence: the store loads from repo on Start
// and mirrors every committed mutation to it. Without this option the
// store is purely in-memory.
func WithRepository(repo persist.Repository) Option {
	return func(o *options) {
		o.repo = repo
	}
}

// WithDebounce batches snapshot writes: instead of writing on every
// commit, the store flushes the latest snapshot after the given interval.
// The last committed state is still guaranteed to reach the sink (Close
// flushes). Only meaningful together with WithRepository.
func WithDebounce(interval time.Duration) Option {
	return func(o *options) {
		o.debounce = interval
	}
}

// WithSource sets the external collaborator Refresh pulls from.
func WithSource(source Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithIDGenerator replaces the default sequential id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.genID = fn
	}
}

// WithUUIDs mints task ids as random UUIDs instead of sequential numbers.
func WithUUIDs() Option {
	return WithIDGenerator(uuid.NewString)
}

// WithPlugin registers a plugin, initialized on Start in registration
// order and shut down on Close in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

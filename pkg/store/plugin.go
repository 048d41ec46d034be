package store

import (
	"context"

	"github.com/bft-labs/taskstore/pkg/log"
)

// Plugin extends a Store with optional background behavior, such as
// watching the persistence sink for external changes. Plugins are
// initialized during Start in registration order and shut down during
// Close in reverse order.
type Plugin interface {
	// Name returns the plugin identifier, used in diagnostics.
	Name() string

	// Initialize prepares the plugin. The context is the one passed to
	// Start; plugins that spawn goroutines should derive their own
	// cancellable context and stop them in Shutdown.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to each plugin on initialization.
type PluginConfig struct {
	// Store is the owning store. Plugins may read state, subscribe, and
	// invoke Reload; they should not assume exclusive access.
	Store *Store

	// Logger is the store's diagnostic sink.
	Logger log.Logger
}

// Package snapshotwatcher reloads a store when its persisted snapshot file
// changes on disk. It covers the case where another process (or a human
// with an editor) rewrites the snapshot while the store is running: the
// change is picked up and committed like any other mutation, so
// subscribers observe it.
//
// Only useful with a file-backed repository; pair it with the path from
// persist.FileRepository.Path().
package snapshotwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/store"
)

// Config holds configuration options for the snapshot watcher plugin.
type Config struct {
	// Path is the snapshot file to watch. Required.
	Path string

	// DebounceDelay is how long to wait after a file event before
	// reloading, collapsing bursts (atomic writes produce several events).
	// Default: 100 milliseconds.
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for the given
// snapshot path.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Plugin implements store.Plugin by watching the snapshot file with
// fsnotify and calling Reload on changes.
type Plugin struct {
	path          string
	debounceDelay time.Duration

	mu       sync.Mutex
	store    *store.Store
	logger   log.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// New creates a new snapshot watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "snapshotwatcher"
}

// Initialize starts the watcher loop.
func (p *Plugin) Initialize(ctx context.Context, cfg store.PluginConfig) error {
	p.mu.Lock()
	p.store = cfg.Store
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.path == "" {
		p.logger.Warn("snapshot watcher disabled: no path configured")
		return nil
	}

	// Create the watcher and register the directory before returning so a
	// file change that lands right after Start is not lost to a startup
	// race between the caller and the watch goroutine.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("snapshot watcher: failed to create watcher", log.Err(err))
		return nil
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		p.logger.Error("snapshot watcher: failed to watch directory", log.Err(err))
		watcher.Close()
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("snapshot watcher initialized", log.Str("path", p.path))
	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
		p.debounce = nil
	}
	p.mu.Unlock()
	return nil
}

// watchLoop watches the snapshot's directory. Watching the directory
// rather than the file survives the atomic rename the file repository
// performs on save.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	base := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("snapshot watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) scheduleReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := p.store.Reload(ctx); err != nil {
			p.logger.Error("snapshot watcher: reload failed", log.Err(err))
			return
		}
		p.logger.Debug("snapshot watcher: reloaded from disk")
	})
}

package snapshotwatcher

import (
	"context"
	"testing"
	"time"

	"github.com/bft-labs/taskstore/pkg/persist"
	"github.com/bft-labs/taskstore/pkg/store"
)

func TestWatcherPicksUpExternalSave(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	repo := persist.NewFileRepository(dir)

	st, err := store.New(
		store.WithRepository(repo),
		WithSnapshotWatcher(Config{Path: repo.Path(), DebounceDelay: 20 * time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer st.Close()

	// Another process rewrites the snapshot behind the store's back.
	now := time.Now().UTC()
	external := persist.Snapshot{
		Tasks: map[string]persist.Record{
			"7": {ID: "7", Name: "Water plants", CreatedAt: now, UpdatedAt: now},
		},
	}
	writer := persist.NewFileRepository(dir)
	if err := writer.Save(ctx, external); err != nil {
		t.Fatalf("external save: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := st.State()
		if _, ok := snap.Task("7"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("external write never reloaded; state: %+v", snap.Tasks)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatcherWithoutPathIsInert(t *testing.T) {
	st, err := store.New(WithSnapshotWatcher(Config{}))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Start(context.Background()); err != nil {
		t.Fatalf("start with inert watcher: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/snapshot.json")
	if cfg.Path != "/tmp/snapshot.json" {
		t.Fatalf("unexpected path %q", cfg.Path)
	}
	if cfg.DebounceDelay != 100*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.DebounceDelay)
	}
}

func TestNewClampsDebounce(t *testing.T) {
	p := New(Config{Path: "x", DebounceDelay: -time.Second})
	if p.debounceDelay <= 0 {
		t.Fatalf("debounce must be clamped to a positive default")
	}
	if p.Name() != "snapshotwatcher" {
		t.Fatalf("unexpected name %q", p.Name())
	}
}

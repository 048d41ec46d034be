package store

import (
	"context"
	"os"
	"testing"

	"github.com/bft-labs/taskstore/pkg/persist"
	"github.com/bft-labs/taskstore/pkg/result"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Store, name string) Task {
	t.Helper()
	res := s.Create(context.Background(), CreatePayload{Name: name})
	if !res.OK() {
		t.Fatalf("create %q failed: %s", name, res.Message)
	}
	return res.Data
}

func TestCreateThenSelect(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, s, "Buy milk")
	if created.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if created.Completed {
		t.Fatalf("new task must not be completed")
	}

	res := s.SelectTask(ctx, created.ID)
	if !res.OK() {
		t.Fatalf("select failed: %s", res.Message)
	}

	snap := s.State()
	if _, ok := snap.Task(created.ID); !ok {
		t.Fatalf("created task missing from snapshot")
	}
	if snap.SelectedID != created.ID {
		t.Fatalf("expected selected id %s, got %s", created.ID, snap.SelectedID)
	}
}

func TestLifecycleScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := s.Create(ctx, CreatePayload{Name: "Buy milk"})
	if !created.OK() {
		t.Fatalf("create failed: %s", created.Message)
	}
	if created.Data.ID != "1" {
		t.Fatalf("expected sequential id 1, got %s", created.Data.ID)
	}
	if created.Data.Name != "Buy milk" || created.Data.Completed {
		t.Fatalf("unexpected created task %+v", created.Data)
	}

	toggled := s.ToggleCompleted(ctx, "1")
	if !toggled.OK() || !toggled.Data.Completed {
		t.Fatalf("expected toggle to complete the task, got %+v", toggled)
	}

	deleted := s.Delete(ctx, "1")
	if !deleted.OK() {
		t.Fatalf("delete failed: %s", deleted.Message)
	}

	again := s.Delete(ctx, "1")
	if again.OK() {
		t.Fatalf("repeat delete must fail")
	}
	if again.Code != result.CodeNotFound || again.Message != "not found" {
		t.Fatalf("expected not found error, got %+v", again)
	}
}

func TestNotFoundLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "keep me")
	before := s.State()

	name := "x"
	if res := s.Update(ctx, "missing-id", UpdatePayload{Name: &name}); res.OK() || res.Code != result.CodeNotFound {
		t.Fatalf("expected not found from update, got %+v", res)
	}
	if res := s.Delete(ctx, "missing-id"); res.OK() || res.Code != result.CodeNotFound {
		t.Fatalf("expected not found from delete, got %+v", res)
	}
	if res := s.SelectTask(ctx, "missing-id"); res.OK() || res.Code != result.CodeNotFound {
		t.Fatalf("expected not found from select, got %+v", res)
	}
	if res := s.ToggleCompleted(ctx, "missing-id"); res.OK() || res.Code != result.CodeNotFound {
		t.Fatalf("expected not found from toggle, got %+v", res)
	}

	after := s.State()
	if after.Version != before.Version {
		t.Fatalf("failed actions must not commit: version %d -> %d", before.Version, after.Version)
	}
	if after.Len() != before.Len() {
		t.Fatalf("failed actions must not change items: %d -> %d", before.Len(), after.Len())
	}
}

func TestSelectIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, "pick me")

	if res := s.SelectTask(ctx, created.ID); !res.OK() {
		t.Fatalf("first select failed: %s", res.Message)
	}
	v := s.Version()

	if res := s.SelectTask(ctx, created.ID); !res.OK() {
		t.Fatalf("repeat select failed: %s", res.Message)
	}
	if s.Version() != v {
		t.Fatalf("repeat select must not publish a new version")
	}
	if s.State().SelectedID != created.ID {
		t.Fatalf("selection lost")
	}
}

func TestSetCompletedIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, "flag me")

	if res := s.SetCompleted(ctx, created.ID, true); !res.OK() || !res.Data.Completed {
		t.Fatalf("set completed failed: %+v", res)
	}
	v := s.Version()

	res := s.SetCompleted(ctx, created.ID, true)
	if !res.OK() || !res.Data.Completed {
		t.Fatalf("repeat set completed failed: %+v", res)
	}
	if s.Version() != v {
		t.Fatalf("repeat set completed must not publish a new version")
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if res := s.Create(ctx, CreatePayload{Name: "   "}); res.OK() || res.Code != result.CodeValidation {
		t.Fatalf("expected validation error for empty name, got %+v", res)
	}

	mustCreate(t, s, "unique")
	if res := s.Create(ctx, CreatePayload{Name: "unique"}); res.OK() || res.Code != result.CodeValidation {
		t.Fatalf("expected validation error for duplicate name, got %+v", res)
	}
	if s.State().Len() != 1 {
		t.Fatalf("rejected creates must not add tasks")
	}
}

func TestUpdateRename(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "a")
	mustCreate(t, s, "b")

	name := "renamed"
	res := s.Update(ctx, a.ID, UpdatePayload{Name: &name})
	if !res.OK() || res.Data.Name != "renamed" {
		t.Fatalf("rename failed: %+v", res)
	}

	clash := "b"
	if res := s.Update(ctx, a.ID, UpdatePayload{Name: &clash}); res.OK() || res.Code != result.CodeValidation {
		t.Fatalf("expected validation error for name clash, got %+v", res)
	}

	// Empty payload succeeds without publishing a commit.
	v := s.Version()
	res = s.Update(ctx, a.ID, UpdatePayload{})
	if !res.OK() || res.Data.Name != "renamed" {
		t.Fatalf("empty update failed: %+v", res)
	}
	if s.Version() != v {
		t.Fatalf("empty update must not publish a new version")
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := mustCreate(t, s, "selected then gone")

	if res := s.SelectTask(ctx, created.ID); !res.OK() {
		t.Fatalf("select failed: %s", res.Message)
	}
	if res := s.Delete(ctx, created.ID); !res.OK() {
		t.Fatalf("delete failed: %s", res.Message)
	}
	if got := s.State().SelectedID; got != "" {
		t.Fatalf("expected selection cleared, got %q", got)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.Create(ctx, CreatePayload{Name: "too late"})
	if res.OK() || res.Code != result.CodeCanceled {
		t.Fatalf("expected canceled result, got %+v", res)
	}
	if s.State().Len() != 0 {
		t.Fatalf("canceled action must not mutate state")
	}
}

func TestMutatorPanicRollsBack(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "survivor")
	before := s.State()

	err := s.commit(context.Background(), "boom", func(st *state) error {
		st.tasks = nil
		panic("mutator bug")
	})
	if err == nil {
		t.Fatalf("expected error from panicking mutator")
	}

	after := s.State()
	if after.Version != before.Version || after.Len() != 1 {
		t.Fatalf("panicking mutator must roll back: before %+v after %+v", before, after)
	}
}

func TestActionsAfterClose(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close must be idempotent: %v", err)
	}

	res := s.Create(context.Background(), CreatePayload{Name: "nope"})
	if res.OK() {
		t.Fatalf("actions must fail after close")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := newTestStore(t, WithRepository(persist.NewFileRepository(dir)))
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	created := mustCreate(t, s, "durable")
	if res := s.SelectTask(ctx, created.ID); !res.OK() {
		t.Fatalf("select failed: %s", res.Message)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	reopened := newTestStore(t, WithRepository(persist.NewFileRepository(dir)))
	if err := reopened.Start(ctx); err != nil {
		t.Fatalf("restart returned error: %v", err)
	}
	snap := reopened.State()
	got, ok := snap.Task(created.ID)
	if !ok {
		t.Fatalf("persisted task missing after reload")
	}
	if got.Name != "durable" || snap.SelectedID != created.ID {
		t.Fatalf("unexpected reloaded state: task %+v selected %q", got, snap.SelectedID)
	}

	// Ids minted after a reload must not collide with persisted ones.
	next := mustCreate(t, reopened, "fresh")
	if next.ID == created.ID {
		t.Fatalf("id collision after reload: %s", next.ID)
	}
}

func TestStartWithMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	repo := persist.NewFileRepository(dir)
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write malformed snapshot: %v", err)
	}

	s := newTestStore(t, WithRepository(repo))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("malformed snapshot must not fail startup: %v", err)
	}
	if s.State().Len() != 0 {
		t.Fatalf("expected empty fallback state")
	}
}

func TestStartTwice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if err := s.Start(ctx); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := newTestStore(t, WithRepository(persist.NewFileRepository(dir)))
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	mustCreate(t, s, "mine")

	// Another process rewrites the snapshot.
	other := persist.NewFileRepository(dir)
	err := other.Save(ctx, persist.Snapshot{
		Tasks: map[string]persist.Record{
			"9": {ID: "9", Name: "theirs"},
		},
	})
	if err != nil {
		t.Fatalf("external save failed: %v", err)
	}

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	snap := s.State()
	if _, ok := snap.Task("9"); !ok {
		t.Fatalf("reloaded task missing")
	}
	if _, ok := snap.Task("1"); ok {
		t.Fatalf("reload must replace state, not merge")
	}

	// Reloading identical state publishes nothing.
	v := s.Version()
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("repeat reload returned error: %v", err)
	}
	if s.Version() != v {
		t.Fatalf("no-op reload must not publish a new version")
	}
}

func TestReloadWithoutRepository(t *testing.T) {
	s := newTestStore(t)
	if err := s.Reload(context.Background()); err != ErrNoRepository {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
}

func TestUUIDOption(t *testing.T) {
	s := newTestStore(t, WithUUIDs())
	created := mustCreate(t, s, "uuid task")
	if len(created.ID) != 36 {
		t.Fatalf("expected uuid-shaped id, got %q", created.ID)
	}
}

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key layout: one "task/<id>" entry per entity plus a single "meta" entry
// holding the scalar fields. Save rewrites the full set transactionally, so
// Load never sees a half-written snapshot.
var (
	metaKey    = []byte("meta")
	taskPrefix = []byte("task/")
)

type badgerMeta struct {
	SchemaVersion int       `json:"schema_version"`
	SelectedID    string    `json:"selected_id,omitempty"`
	SavedAt       time.Time `json:"saved_at"`
}

// BadgerRepository implements Repository on an embedded Badger key-value
// store. It suits long-lived processes that commit frequently: writes touch
// only the LSM tree instead of rewriting a whole document.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens (or creates) a Badger database in dir.
// Badger's internal logging is disabled; the caller owns diagnostics.
func NewBadgerRepository(dir string) (*BadgerRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerRepository{db: db}, nil
}

// NewInMemoryBadgerRepository opens a Badger database that lives entirely
// in memory. Useful for tests.
func NewInMemoryBadgerRepository() (*BadgerRepository, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerRepository{db: db}, nil
}

// Load reconstructs the last saved snapshot from the database.
// A database without a meta entry yields (nil, nil); undecodable entries or
// an unknown future schema version yield (nil, ErrMalformed).
func (r *BadgerRepository) Load(ctx context.Context) (*Snapshot, error) {
	var snap *Snapshot

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var meta badgerMeta
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return errors.Join(ErrMalformed, err)
		}
		if meta.SchemaVersion > SchemaVersion {
			return ErrMalformed
		}

		tasks := map[string]Record{}
		opts := badger.DefaultIteratorOptions
		opts.Prefix = taskPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return errors.Join(ErrMalformed, err)
			}
			tasks[rec.ID] = rec
		}

		snap = &Snapshot{
			SchemaVersion: meta.SchemaVersion,
			Tasks:         tasks,
			SelectedID:    meta.SelectedID,
			SavedAt:       meta.SavedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces the stored snapshot in a single transaction: stale task
// entries are removed, current ones written, and the meta entry updated
// last.
func (r *BadgerRepository) Save(ctx context.Context, snapshot Snapshot) error {
	meta := badgerMeta{
		SchemaVersion: SchemaVersion,
		SelectedID:    snapshot.SelectedID,
		SavedAt:       snapshot.SavedAt,
	}
	if meta.SavedAt.IsZero() {
		meta.SavedAt = time.Now().UTC()
	}

	return r.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = taskPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			id := string(it.Item().Key()[len(taskPrefix):])
			if _, ok := snapshot.Tasks[id]; !ok {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for id, rec := range snapshot.Tasks {
			raw, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set(append(append([]byte{}, taskPrefix...), id...), raw); err != nil {
				return err
			}
		}

		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return txn.Set(metaKey, raw)
	})
}

// Close releases the underlying database. The repository must not be used
// afterwards.
func (r *BadgerRepository) Close() error {
	return r.db.Close()
}

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const snapshotFileName = "snapshot.json"

// FileRepository implements Repository using a single JSON document.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a new FileRepository for the given directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load retrieves the last saved snapshot from disk.
// A missing file yields (nil, nil); an undecodable file or an unknown
// future schema version yields (nil, ErrMalformed).
func (r *FileRepository) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if snap.SchemaVersion > SchemaVersion {
		return nil, ErrMalformed
	}
	if snap.Tasks == nil {
		snap.Tasks = map[string]Record{}
	}
	return &snap, nil
}

// Save persists the snapshot atomically (write to temp file, then rename)
// to prevent corruption on crash.
func (r *FileRepository) Save(ctx context.Context, snapshot Snapshot) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	snapshot.SchemaVersion = SchemaVersion
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.Path())
}

// Path returns the full path to the snapshot file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, snapshotFileName)
}

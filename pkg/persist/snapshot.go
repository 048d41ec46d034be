package persist

import "time"

// SchemaVersion is the current snapshot schema version. Snapshots are
// stamped with it on save so future versions can migrate on load.
const SchemaVersion = 1

// Record is the persisted form of a single task entity.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a serialized projection of store state: entity records keyed
// by identifier plus scalar metadata. Transient fields such as in-flight
// loading counters are intentionally absent.
type Snapshot struct {
	// SchemaVersion marks the snapshot layout for safe migration on load.
	SchemaVersion int `json:"schema_version"`

	// Tasks holds every persisted entity, keyed by its identifier.
	Tasks map[string]Record `json:"tasks"`

	// SelectedID is the currently selected entity, if any.
	SelectedID string `json:"selected_id,omitempty"`

	// SavedAt is the time the snapshot was written.
	SavedAt time.Time `json:"saved_at"`
}

// IsEmpty returns true if the snapshot holds no entities and no selection.
func (s Snapshot) IsEmpty() bool {
	return len(s.Tasks) == 0 && s.SelectedID == ""
}

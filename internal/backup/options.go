package backup

import "time"

// BackupOptions configures backup creation.
type BackupOptions struct {
	IncludeSession bool   // Include the signed-in user slot
	OutputPath     string // Where to write the archive; defaults under the backup dir
}

// RestoreOptions configures restoration.
type RestoreOptions struct {
	Mode          RestoreMode
	MergeStrategy MergeStrategy
	DryRun        bool // Validate without writing
}

// RestoreMode determines how to handle existing data.
type RestoreMode string

const (
	// RestoreModeFull replaces all stored progress with the archive's.
	RestoreModeFull RestoreMode = "full"

	// RestoreModeMerge combines archive records with stored ones per book.
	RestoreModeMerge RestoreMode = "merge"
)

// Valid returns true if the restore mode is recognized.
func (m RestoreMode) Valid() bool {
	switch m {
	case RestoreModeFull, RestoreModeMerge:
		return true
	default:
		return false
	}
}

// MergeStrategy picks the winner when both sides hold a record for the same book.
type MergeStrategy string

const (
	// MergeKeepLocal keeps the stored record.
	MergeKeepLocal MergeStrategy = "keep_local"

	// MergeKeepBackup uses the archive record.
	MergeKeepBackup MergeStrategy = "keep_backup"
)

// Valid returns true if the merge strategy is recognized.
func (s MergeStrategy) Valid() bool {
	switch s {
	case MergeKeepLocal, MergeKeepBackup:
		return true
	case "": // only meaningful in merge mode
		return true
	default:
		return false
	}
}

// BackupResult contains the outcome of a backup operation.
type BackupResult struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Counts   EntityCounts  `json:"counts"`
	Duration time.Duration `json:"duration"`
	Checksum string        `json:"checksum"`
}

// BackupInfo describes an existing archive.
type BackupInfo struct {
	ID        string       `json:"id"`
	Path      string       `json:"path"`
	Size      int64        `json:"size"`
	CreatedAt time.Time    `json:"created_at"`
	Counts    EntityCounts `json:"counts"`
}

// RestoreResult contains the outcome of a restore operation.
type RestoreResult struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []RestoreError `json:"errors,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// RestoreError describes a non-fatal error during restore.
type RestoreError struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id,omitempty"`
	Error      string `json:"error"`
}

package backup

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// FormatVersion is the archive format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// Archive member names.
const (
	manifestFile = "manifest.json"
	progressFile = "progress.jsonl"
	sessionFile  = "session.json"
)

// Manifest describes archive contents.
type Manifest struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	Counts EntityCounts `json:"counts"`

	IncludesSession bool `json:"includes_session"`
}

// EntityCounts tracks what an archive holds.
type EntityCounts struct {
	Users   int `json:"users"`
	Records int `json:"records"`
	Notes   int `json:"notes"`
}

// compatible reports whether v shares FormatVersion's major version.
func compatible(v string) bool {
	major, _, _ := strings.Cut(v, ".")
	want, _, _ := strings.Cut(FormatVersion, ".")
	return major != "" && major == want
}

// userEntry is one line of progress.jsonl. Progress keeps the stored wire shape.
type userEntry struct {
	UserID   int                 `json:"user_id"`
	Progress jsoniter.RawMessage `json:"progress"`
}

package domain

import (
	"slices"
	"time"
)

// Note is a reader's annotation attached to a page.
type Note struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ReadingProgress is one user's state for one book.
//
// TotalPages is copied from the catalog when the record is created and never
// follows later catalog changes. Notes are append-only and keep call order.
type ReadingProgress struct {
	BookID      int       `json:"book_id"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	LastReadAt  time.Time `json:"last_read_at"`
	Notes       []Note    `json:"notes"`
}

// Percent returns floor(CurrentPage / TotalPages * 100). A record without a
// page count reports 0.
func (p ReadingProgress) Percent() int {
	if p.TotalPages <= 0 {
		return 0
	}
	return p.CurrentPage * 100 / p.TotalPages
}

// IsCompleted reports whether the reader has reached the last page.
func (p ReadingProgress) IsCompleted() bool {
	return p.CurrentPage >= p.TotalPages
}

// IsInProgress reports whether reading has started but not finished.
func (p ReadingProgress) IsInProgress() bool {
	return p.CurrentPage > 0 && p.CurrentPage < p.TotalPages
}

// Clone returns a deep copy so callers cannot reach the store's notes.
func (p ReadingProgress) Clone() ReadingProgress {
	p.Notes = slices.Clone(p.Notes)
	return p
}

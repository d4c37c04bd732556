package domain

import "time"

// ReadingStats summarises a user's whole progress set.
// TotalPages is the sum of current pages, i.e. pages read, not catalog size.
type ReadingStats struct {
	TotalBooks      int `json:"total_books"`
	BooksInProgress int `json:"books_in_progress"`
	CompletedBooks  int `json:"completed_books"`
	TotalPages      int `json:"total_pages"`
}

// RecentBook is a progress record joined with its catalog entry.
type RecentBook struct {
	Book       Book      `json:"book"`
	Progress   int       `json:"progress"` // percent, 0-100
	LastReadAt time.Time `json:"last_read_at"`
}

// Recommendation is an unread book with the number of its genres the reader has touched.
type Recommendation struct {
	Book      Book `json:"book"`
	Relevance int  `json:"relevance"`
}

// Package derive computes read-only views over the catalog and a user's progress.
//
// Every function is pure: inputs are never modified and results share no
// memory with them. Sorts are stable, so ties keep catalog (or record) order.
package derive

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/normalize"
)

// DefaultLimit is the size of the recent and recommendation lists.
const DefaultLimit = 5

// BookLookup resolves catalog entries by id.
type BookLookup interface {
	Get(id int) (domain.Book, bool)
}

// Query holds the reader's catalog filters. Empty fields do not filter.
type Query struct {
	Search string // case-insensitive substring of title or author
	Genre  string // case-insensitive exact genre
}

// FilterBooks returns the books matching q in their original order.
func FilterBooks(books []domain.Book, q Query) []domain.Book {
	search := normalize.Fold(q.Search)

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if search != "" && !containsFolded(b.Title, search) && !containsFolded(b.Author, search) {
			continue
		}
		if q.Genre != "" && !b.HasGenre(q.Genre) {
			continue
		}
		out = append(out, b.Clone())
	}
	return out
}

// containsFolded reports whether the folded form of s contains the already folded sub.
func containsFolded(s, foldedSub string) bool {
	return strings.Contains(normalize.Fold(s), foldedSub)
}

// AllGenres returns every distinct genre, sorted ascending.
func AllGenres(books []domain.Book) []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, b := range books {
		for _, g := range b.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	slices.Sort(genres)
	return genres
}

// Stats summarises records.
func Stats(records []domain.ReadingProgress) domain.ReadingStats {
	stats := domain.ReadingStats{TotalBooks: len(records)}
	for _, p := range records {
		if p.IsInProgress() {
			stats.BooksInProgress++
		}
		if p.IsCompleted() {
			stats.CompletedBooks++
		}
		stats.TotalPages += p.CurrentPage
	}
	return stats
}

// Recent returns up to limit records, most recently read first, joined with their
// books. Records are ranked before the join, so a missing book shortens the list.
func Recent(lookup BookLookup, records []domain.ReadingProgress, limit int) []domain.RecentBook {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.ReadingProgress) int {
		return b.LastReadAt.Compare(a.LastReadAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:max(limit, 0)]
	}

	out := make([]domain.RecentBook, 0, len(sorted))
	for _, p := range sorted {
		book, ok := lookup.Get(p.BookID)
		if !ok {
			continue
		}
		out = append(out, domain.RecentBook{
			Book:       book.Clone(),
			Progress:   p.Percent(),
			LastReadAt: p.LastReadAt,
		})
	}
	return out
}

// Recommend ranks unread books by how many of their genres the reader has touched.
// With no overlap it falls back to the highest rated unread books, relevance 0.
func Recommend(books []domain.Book, records []domain.ReadingProgress, limit int) []domain.Recommendation {
	limit = max(limit, 0)

	read := make(map[int]struct{}, len(records))
	for _, p := range records {
		read[p.BookID] = struct{}{}
	}

	touched := make(map[string]struct{})
	var unread []domain.Book
	for _, b := range books {
		if _, ok := read[b.ID]; ok {
			for _, g := range b.Genres {
				touched[g] = struct{}{}
			}
			continue
		}
		unread = append(unread, b)
	}

	var ranked []domain.Recommendation
	for _, b := range unread {
		relevance := 0
		for _, g := range b.Genres {
			if _, ok := touched[g]; ok {
				relevance++
			}
		}
		if relevance > 0 {
			ranked = append(ranked, domain.Recommendation{Book: b.Clone(), Relevance: relevance})
		}
	}
	slices.SortStableFunc(ranked, func(a, b domain.Recommendation) int {
		return cmp.Compare(b.Relevance, a.Relevance)
	})
	if len(ranked) > 0 {
		return ranked[:min(limit, len(ranked))]
	}

	byRating := slices.Clone(unread)
	slices.SortStableFunc(byRating, func(a, b domain.Book) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	byRating = byRating[:min(limit, len(byRating))]

	out := make([]domain.Recommendation, len(byRating))
	for i, b := range byRating {
		out[i] = domain.Recommendation{Book: b.Clone()}
	}
	return out
}

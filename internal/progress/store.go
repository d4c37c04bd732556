// Package progress owns one user's reading progress and writes it back on every change.
package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
)

// ErrUnknownBook is returned when a mutation names a book that is not in the catalog.
var ErrUnknownBook = domainerrors.NotFound("book not found")

// BookLookup resolves catalog entries.
type BookLookup interface {
	Get(id int) (domain.Book, bool)
}

// Persister reads and writes a user's whole progress list.
type Persister interface {
	LoadProgress(ctx context.Context, userID int) ([]domain.ReadingProgress, error)
	SaveProgress(ctx context.Context, userID int, list []domain.ReadingProgress) error
}

// Deps are the collaborators a Store needs.
type Deps struct {
	Catalog BookLookup
	Adapter Persister
	Logger  *slog.Logger
	Clock   func() time.Time // defaults to time.Now
}

// Store holds the progress records of a single user. Records keep the order in
// which they were first created. All methods are safe for concurrent use; each
// mutation runs modify-save-commit under one lock.
type Store struct {
	userID  int
	catalog BookLookup
	adapter Persister
	logger  *slog.Logger
	clock   func() time.Time

	mu      sync.RWMutex
	records []domain.ReadingProgress
	index   map[int]int // book id -> position in records
}

// Open loads userID's persisted progress. It never fails: unreadable data leaves
// the store empty and is logged.
func Open(ctx context.Context, userID int, deps Deps) *Store {
	s := &Store{
		userID:  userID,
		catalog: deps.Catalog,
		adapter: deps.Adapter,
		logger:  deps.Logger,
		clock:   deps.Clock,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.logger = s.logger.With("user_id", userID)

	list, err := s.adapter.LoadProgress(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load progress, starting empty", "error", err)
		list = nil
	}
	s.replace(list)

	s.logger.Debug("progress loaded", "records", len(s.records))
	return s
}

// replace installs list as the current state, keeping the first record per book.
func (s *Store) replace(list []domain.ReadingProgress) {
	s.records = make([]domain.ReadingProgress, 0, len(list))
	s.index = make(map[int]int, len(list))
	for _, p := range list {
		if _, dup := s.index[p.BookID]; dup {
			s.logger.Warn("dropping duplicate progress record", "book_id", p.BookID)
			continue
		}
		s.index[p.BookID] = len(s.records)
		s.records = append(s.records, p.Clone())
	}
}

// UserID returns the user this store belongs to.
func (s *Store) UserID() int {
	return s.userID
}

// Get returns the record for bookID.
func (s *Store) Get(bookID int) (domain.ReadingProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[bookID]
	if !ok {
		return domain.ReadingProgress{}, false
	}
	return s.records[i].Clone(), true
}

// All returns every record in creation order.
func (s *Store) All() []domain.ReadingProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// UpdateProgress sets the current page of bookID and stamps LastReadAt, creating
// the record on first use with TotalPages copied from the catalog.
func (s *Store) UpdateProgress(ctx context.Context, bookID, page int) error {
	if page < 0 {
		return domainerrors.ValidationWithDetails("invalid page", map[string]string{
			"page": "must be greater than or equal to 0",
		})
	}

	return s.mutate(ctx, bookID, func(p *domain.ReadingProgress, _ bool) {
		p.CurrentPage = page
		p.LastReadAt = s.now()
	})
}

// AddNote appends a note to bookID's record. An existing record keeps its
// LastReadAt; a missing record is created at page with LastReadAt set to now.
func (s *Store) AddNote(ctx context.Context, bookID, page int, text string) error {
	if page < 0 {
		return domainerrors.ValidationWithDetails("invalid page", map[string]string{
			"page": "must be greater than or equal to 0",
		})
	}

	return s.mutate(ctx, bookID, func(p *domain.ReadingProgress, created bool) {
		if created {
			p.CurrentPage = page
			p.LastReadAt = s.now()
		}
		p.Notes = append(p.Notes, domain.Note{Page: page, Text: text})
	})
}

// mutate applies fn to a copy of bookID's record, persists the full list, and only
// then commits it to memory.
func (s *Store) mutate(ctx context.Context, bookID int, fn func(p *domain.ReadingProgress, created bool)) error {
	book, ok := s.catalog.Get(bookID)
	if !ok {
		s.logger.Warn("ignoring progress change for unknown book", "book_id", bookID)
		return ErrUnknownBook
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneAll(s.records)
	i, exists := s.index[bookID]
	if !exists {
		next = append(next, domain.ReadingProgress{
			BookID:     bookID,
			TotalPages: book.PageCount,
		})
		i = len(next) - 1
	}
	fn(&next[i], !exists)

	if err := s.adapter.SaveProgress(ctx, s.userID, next); err != nil {
		s.logger.Error("failed to persist progress", "book_id", bookID, "error", err)
		return err
	}

	s.records = next
	if !exists {
		s.index[bookID] = i
	}
	return nil
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func cloneAll(list []domain.ReadingProgress) []domain.ReadingProgress {
	out := make([]domain.ReadingProgress, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

// Package service exposes the reader-facing operations: sign-in, browsing,
// reading progress and the derived views.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/derive"
	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
	"github.com/bookshelfapp/bookshelf/internal/progress"
	"github.com/bookshelfapp/bookshelf/internal/search"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// ErrNotSignedIn is returned by progress operations when nobody is signed in.
var ErrNotSignedIn = domainerrors.Unauthorized("sign in to track reading progress")

// UpdateProgressRequest moves a book's bookmark.
type UpdateProgressRequest struct {
	BookID int `json:"book_id" validate:"gt=0"`
	Page   int `json:"page" validate:"gte=0"`
}

// AddNoteRequest attaches a note to a page.
type AddNoteRequest struct {
	BookID int    `json:"book_id" validate:"gt=0"`
	Page   int    `json:"page" validate:"gte=0"`
	Text   string `json:"text" validate:"required,max=2000"`
}

// SearchResult is a search hit joined with its book.
type SearchResult struct {
	Book  domain.Book `json:"book"`
	Score float64     `json:"score"`
}

// Deps are the collaborators of a ReaderService.
type Deps struct {
	Catalog   *catalog.Catalog
	Auth      *auth.Provider
	Adapter   *persistence.Adapter
	Index     *search.Index // optional
	Validator *validation.Validator
	Logger    *slog.Logger
	Clock     func() time.Time
}

// ReaderService ties the signed-in user to their progress store. Signing in as a
// different user replaces the store; nothing carries over between users.
type ReaderService struct {
	catalog   *catalog.Catalog
	auth      *auth.Provider
	adapter   *persistence.Adapter
	index     *search.Index
	validator *validation.Validator
	logger    *slog.Logger
	clock     func() time.Time

	mu       sync.RWMutex
	user     *domain.User
	progress *progress.Store
}

// NewReaderService creates a reader service with nobody signed in.
func NewReaderService(deps Deps) *ReaderService {
	s := &ReaderService{
		catalog:   deps.Catalog,
		auth:      deps.Auth,
		adapter:   deps.Adapter,
		index:     deps.Index,
		validator: deps.Validator,
		logger:    deps.Logger,
		clock:     deps.Clock,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Login authenticates and loads the user's progress.
func (s *ReaderService) Login(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return domain.User{}, err
	}
	s.activate(ctx, u)
	return u, nil
}

// Restore resumes the persisted session, if any.
func (s *ReaderService) Restore(ctx context.Context) (domain.User, bool) {
	u, ok := s.auth.CurrentUser(ctx)
	if !ok {
		return domain.User{}, false
	}
	s.activate(ctx, u)
	return u, true
}

func (s *ReaderService) activate(ctx context.Context, u domain.User) {
	store := progress.Open(ctx, u.ID, progress.Deps{
		Catalog: s.catalog,
		Adapter: s.adapter,
		Logger:  s.logger,
		Clock:   s.clock,
	})

	s.mu.Lock()
	if s.user != nil && s.user.ID != u.ID {
		s.logger.Info("switching user", "from_user_id", s.user.ID, "to_user_id", u.ID)
	}
	s.user = &u
	s.progress = store
	s.mu.Unlock()
}

// Logout clears the session and drops the loaded progress.
func (s *ReaderService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.progress = nil
	s.mu.Unlock()

	return s.auth.Logout(ctx)
}

// CurrentUser returns the signed-in user.
func (s *ReaderService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *ReaderService) store() (*progress.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.progress == nil {
		return nil, ErrNotSignedIn
	}
	return s.progress, nil
}

// Books returns the catalog filtered by q.
func (s *ReaderService) Books(q derive.Query) []domain.Book {
	return derive.FilterBooks(s.catalog.All(), q)
}

// Genres returns every catalog genre, sorted.
func (s *ReaderService) Genres() []string {
	return derive.AllGenres(s.catalog.All())
}

// Book returns a single book.
func (s *ReaderService) Book(id int) (domain.Book, error) {
	b, ok := s.catalog.Get(id)
	if !ok {
		return domain.Book{}, domainerrors.NotFoundf("book %d not found", id)
	}
	return b, nil
}

// Progress returns the signed-in user's record for bookID.
func (s *ReaderService) Progress(bookID int) (domain.ReadingProgress, bool, error) {
	store, err := s.store()
	if err != nil {
		return domain.ReadingProgress{}, false, err
	}
	p, ok := store.Get(bookID)
	return p, ok, nil
}

// AllProgress returns every record of the signed-in user.
func (s *ReaderService) AllProgress() ([]domain.ReadingProgress, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}

// UpdateProgress moves the bookmark of a book.
func (s *ReaderService) UpdateProgress(ctx context.Context, req UpdateProgressRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	store, err := s.store()
	if err != nil {
		return err
	}
	return store.UpdateProgress(ctx, req.BookID, req.Page)
}

// AddNote attaches a note to a page of a book.
func (s *ReaderService) AddNote(ctx context.Context, req AddNoteRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	store, err := s.store()
	if err != nil {
		return err
	}
	return store.AddNote(ctx, req.BookID, req.Page, req.Text)
}

// Stats summarises the signed-in user's reading.
func (s *ReaderService) Stats() (domain.ReadingStats, error) {
	store, err := s.store()
	if err != nil {
		return domain.ReadingStats{}, err
	}
	return derive.Stats(store.All()), nil
}

// Recent lists the most recently read books.
func (s *ReaderService) Recent() ([]domain.RecentBook, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return derive.Recent(s.catalog, store.All(), derive.DefaultLimit), nil
}

// Recommendations suggests unread books.
func (s *ReaderService) Recommendations() ([]domain.Recommendation, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return derive.Recommend(s.catalog.All(), store.All(), derive.DefaultLimit), nil
}

// Search runs a full-text search and joins the hits with the catalog.
func (s *ReaderService) Search(ctx context.Context, params search.Params) ([]SearchResult, error) {
	if s.index == nil {
		return nil, domainerrors.Internal("search index is not available")
	}

	hits, err := s.index.SearchParams(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		b, ok := s.catalog.Get(h.BookID)
		if !ok {
			continue
		}
		results = append(results, SearchResult{Book: b, Score: h.Score})
	}
	return results, nil
}

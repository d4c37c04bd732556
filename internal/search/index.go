// Package search provides full-text search over the catalog using Bleve.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/normalize"
)

// DefaultLimit caps results when the caller passes a non-positive limit.
const DefaultLimit = 10

// Index is an in-memory Bleve index over catalog books.
//
// Thread safety: All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Hit is a matching book and its relevance score.
type Hit struct {
	BookID int     `json:"book_id"`
	Score  float64 `json:"score"`
}

// Params narrows a search.
type Params struct {
	Query   string
	Genre   string // exact genre, any case
	MinYear int
	MaxYear int
	Limit   int
}

// NewIndex builds an in-memory index holding books.
func NewIndex(books []domain.Book, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, b := range books {
		doc := newDocument(b)
		if err := batch.Index(doc.ID, doc.toMap()); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index book %d: %w", b.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	logger.Info("search index built", "documents", len(books))
	return &Index{index: idx, logger: logger}, nil
}

// Search finds books matching q, best first. A blank query matches nothing.
func (s *Index) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	return s.SearchParams(ctx, Params{Query: q, Limit: limit})
}

// SearchParams runs a search with filters. Without a text query it returns no hits.
func (s *Index) SearchParams(ctx context.Context, p Params) ([]Hit, error) {
	p.Query = strings.TrimSpace(p.Query)
	if p.Query == "" {
		return []Hit{}, nil
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(p), p.Limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			s.logger.Warn("skipping search hit with foreign id", "id", h.ID)
			continue
		}
		hits = append(hits, Hit{BookID: id, Score: h.Score})
	}

	s.logger.Debug("search executed", "query", p.Query, "hits", len(hits), "took", res.Took)
	return hits, nil
}

// buildQuery matches the text on title, author, description and content with
// decreasing weight, tolerates one typo in the title, and ANDs the filters.
func buildQuery(p Params) query.Query {
	folded := normalize.Fold(p.Query)

	titleMatch := bleve.NewMatchQuery(p.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(p.Query)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	descMatch := bleve.NewMatchQuery(p.Query)
	descMatch.SetField("description")

	contentMatch := bleve.NewMatchQuery(p.Query)
	contentMatch.SetField("content")
	contentMatch.SetBoost(0.5)

	textQueries := []query.Query{titleMatch, authorMatch, descMatch, contentMatch}

	// Single-word queries also get typo tolerance and prefix completion on titles.
	if !strings.ContainsAny(folded, " \t") {
		fuzzy := bleve.NewFuzzyQuery(folded)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		if utf8.RuneCountInString(folded) >= 2 {
			prefix := bleve.NewPrefixQuery(folded)
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}
	}

	queries := []query.Query{bleve.NewDisjunctionQuery(textQueries...)}

	if p.Genre != "" {
		gq := bleve.NewTermQuery(normalize.Fold(p.Genre))
		gq.SetField("genres")
		queries = append(queries, gq)
	}

	if p.MinYear > 0 || p.MaxYear > 0 {
		lo := float64(p.MinYear)
		hi := float64(p.MaxYear)
		if p.MaxYear == 0 {
			hi = 3000
		}
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
		rq.SetField("publication_year")
		queries = append(queries, rq)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// Count returns the number of indexed books.
func (s *Index) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

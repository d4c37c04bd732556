package search

import (
	"strconv"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/normalize"
)

// document is the indexed form of a book. Field names match the mapping.
type document struct {
	ID              string
	Title           string
	Author          string
	Description     string
	Content         string
	Genres          []string
	PublicationYear int
}

func newDocument(b domain.Book) document {
	genres := make([]string, len(b.Genres))
	for i, g := range b.Genres {
		genres[i] = normalize.Fold(g)
	}
	return document{
		ID:              strconv.Itoa(b.ID),
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		Content:         b.Content,
		Genres:          genres,
		PublicationYear: b.PublicationYear,
	}
}

// toMap keeps field names aligned with buildIndexMapping.
func (d document) toMap() map[string]any {
	return map[string]any{
		"title":            d.Title,
		"author":           d.Author,
		"description":      d.Description,
		"content":          d.Content,
		"genres":           d.Genres,
		"publication_year": float64(d.PublicationYear),
	}
}

// Package domain contains the reading entities shared by the bookshelf core.
package domain

import (
	"slices"

	"github.com/bookshelfapp/bookshelf/internal/normalize"
)

// Book is a catalog entry. Books are seeded at startup and never mutated.
type Book struct {
	ID              int      `json:"id" validate:"gt=0"`
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	CoverURL        string   `json:"cover_url,omitempty" validate:"omitempty,url"`
	Description     string   `json:"description,omitempty"`
	Genres          []string `json:"genres" validate:"required,min=1,dive,required"`
	PageCount       int      `json:"page_count" validate:"gt=0"`
	PublicationYear int      `json:"publication_year"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5"`
	Content         string   `json:"content,omitempty"`
}

// HasGenre reports whether g is one of the book's genres, ignoring case.
func (b Book) HasGenre(g string) bool {
	return slices.ContainsFunc(b.Genres, func(genre string) bool {
		return normalize.EqualFold(genre, g)
	})
}

// Clone returns a copy that shares no slices with b.
func (b Book) Clone() Book {
	b.Genres = slices.Clone(b.Genres)
	return b
}

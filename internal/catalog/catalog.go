// Package catalog holds the fixed, read-only set of books available to every reader.
package catalog

import (
	_ "embed"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

//go:embed seed.json
var seedJSON []byte

// Catalog is an immutable, id-indexed list of books. Safe for concurrent use.
type Catalog struct {
	books []domain.Book
	byID  map[int]int // book id -> position in books
}

// New validates books and builds a catalog that keeps their order.
func New(books []domain.Book, v *validation.Validator) (*Catalog, error) {
	if v == nil {
		v = validation.New()
	}

	c := &Catalog{
		books: make([]domain.Book, 0, len(books)),
		byID:  make(map[int]int, len(books)),
	}

	for i, b := range books {
		if err := v.Validate(b); err != nil {
			return nil, fmt.Errorf("book at position %d (id %d): %w", i, b.ID, err)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, domainerrors.Validationf("duplicate book id %d", b.ID)
		}
		c.byID[b.ID] = len(c.books)
		c.books = append(c.books, b.Clone())
	}

	return c, nil
}

// Default builds the catalog from the embedded seed list.
func Default(v *validation.Validator) (*Catalog, error) {
	books, err := DecodeSeed(seedJSON)
	if err != nil {
		return nil, err
	}
	return New(books, v)
}

// DecodeSeed parses a JSON array of books.
func DecodeSeed(data []byte) ([]domain.Book, error) {
	var books []domain.Book
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &books); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeMalformedData, "decode catalog seed")
	}
	return books, nil
}

// Get returns the book with id.
func (c *Catalog) Get(id int) (domain.Book, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Book{}, false
	}
	return c.books[i].Clone(), true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every book in seed order. The slice is the caller's to keep.
func (c *Catalog) All() []domain.Book {
	out := make([]domain.Book, len(c.books))
	for i, b := range c.books {
		out[i] = b.Clone()
	}
	return out
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

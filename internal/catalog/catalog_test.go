package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
)

func newDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default(nil)
	require.NoError(t, err)
	return c
}

func TestDefault_Seed(t *testing.T) {
	c := newDefault(t)

	assert.Equal(t, 30, c.Len())

	first, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Евгений Онегин", first.Title)
	assert.Equal(t, "Александр Пушкин", first.Author)
	assert.Equal(t, 224, first.PageCount)
	assert.Equal(t, []string{"Классика", "Поэзия", "Роман в стихах"}, first.Genres)
	assert.InDelta(t, 4.8, first.Rating, 1e-9)
	assert.NotEmpty(t, first.Content)
}

func TestGet_EveryBookRoundTrips(t *testing.T) {
	c := newDefault(t)

	for _, b := range c.All() {
		got, ok := c.Get(b.ID)
		require.True(t, ok, "book %d", b.ID)
		assert.Equal(t, b, got)
	}
}

func TestGet_UnusedID(t *testing.T) {
	c := newDefault(t)

	for _, id := range []int{0, -1, 31, 1000} {
		_, ok := c.Get(id)
		assert.False(t, ok, "id %d", id)
		assert.False(t, c.Has(id))
	}
}

func TestAll_KeepsSeedOrder(t *testing.T) {
	c := newDefault(t)

	books := c.All()
	for i, b := range books {
		assert.Equal(t, i+1, b.ID)
	}
}

func TestCatalog_CallersCannotMutate(t *testing.T) {
	c := newDefault(t)

	b, _ := c.Get(1)
	b.Genres[0] = "Испорчено"
	b.Title = "Испорчено"

	all := c.All()
	all[0].Genres[1] = "Испорчено"

	again, _ := c.Get(1)
	assert.Equal(t, "Евгений Онегин", again.Title)
	assert.Equal(t, []string{"Классика", "Поэзия", "Роман в стихах"}, again.Genres)
}

func TestNew_Rejects(t *testing.T) {
	valid := domain.Book{ID: 1, Title: "T", Author: "A", Genres: []string{"G"}, PageCount: 10, Rating: 4}

	tests := []struct {
		name  string
		books func() []domain.Book
	}{
		{name: "non-positive id", books: func() []domain.Book {
			b := valid
			b.ID = 0
			return []domain.Book{b}
		}},
		{name: "duplicate id", books: func() []domain.Book {
			return []domain.Book{valid, valid}
		}},
		{name: "empty genres", books: func() []domain.Book {
			b := valid
			b.Genres = nil
			return []domain.Book{b}
		}},
		{name: "blank genre", books: func() []domain.Book {
			b := valid
			b.Genres = []string{""}
			return []domain.Book{b}
		}},
		{name: "zero pages", books: func() []domain.Book {
			b := valid
			b.PageCount = 0
			return []domain.Book{b}
		}},
		{name: "rating above five", books: func() []domain.Book {
			b := valid
			b.Rating = 5.1
			return []domain.Book{b}
		}},
		{name: "bad cover url", books: func() []domain.Book {
			b := valid
			b.CoverURL = "not a url"
			return []domain.Book{b}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.books(), nil)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestDecodeSeed_Malformed(t *testing.T) {
	_, err := DecodeSeed([]byte(`[{"id": "one"}`))
	assert.ErrorIs(t, err, domainerrors.ErrMalformedData)
}

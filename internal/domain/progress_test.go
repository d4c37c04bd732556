package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadingProgress_Percent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{name: "not started", current: 0, total: 224, want: 0},
		{name: "floors", current: 100, total: 224, want: 44},
		{name: "completed", current: 224, total: 224, want: 100},
		{name: "past the end", current: 300, total: 200, want: 150},
		{name: "zero total", current: 5, total: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ReadingProgress{CurrentPage: tt.current, TotalPages: tt.total}
			assert.Equal(t, tt.want, p.Percent())
		})
	}
}

func TestReadingProgress_State(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		inProgress bool
		completed  bool
	}{
		{name: "untouched", current: 0, total: 10, inProgress: false, completed: false},
		{name: "midway", current: 5, total: 10, inProgress: true, completed: false},
		{name: "last page", current: 10, total: 10, inProgress: false, completed: true},
		{name: "overshoot", current: 11, total: 10, inProgress: false, completed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ReadingProgress{CurrentPage: tt.current, TotalPages: tt.total}
			assert.Equal(t, tt.inProgress, p.IsInProgress())
			assert.Equal(t, tt.completed, p.IsCompleted())
		})
	}
}

func TestReadingProgress_CloneIsDeep(t *testing.T) {
	orig := ReadingProgress{
		BookID:     1,
		LastReadAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Notes:      []Note{{Page: 5, Text: "a"}},
	}

	clone := orig.Clone()
	clone.Notes[0].Text = "changed"
	clone.Notes = append(clone.Notes, Note{Page: 6, Text: "b"})

	assert.Equal(t, "a", orig.Notes[0].Text)
	assert.Len(t, orig.Notes, 1)
}

func TestBook_HasGenreAndClone(t *testing.T) {
	b := Book{ID: 1, Genres: []string{"Классика", "Роман в стихах"}}

	assert.True(t, b.HasGenre("Классика"))
	assert.True(t, b.HasGenre("классика"))
	assert.True(t, b.HasGenre("РОМАН В СТИХАХ"))
	assert.False(t, b.HasGenre("Драма"))

	c := b.Clone()
	c.Genres[0] = "Драма"
	assert.Equal(t, "Классика", b.Genres[0])
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Евгений Онегин", "евгений онегин"},
		{"ПУШКИН", "пушкин"},
		{"Straße", "strasse"},
		// decomposed й (и + combining breve) composes first
		{"Толстой", "толстой"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Евгений Онегин", "онегин", true},
		{"Александр Пушкин", "ПУШК", true},
		{"Война и мир", "", true},
		{"Война и мир", "анна", false},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.sub, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsFold(tt.s, tt.sub))
		})
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Классика", "классика"))
	assert.True(t, EqualFold("РОМАН", "роман"))
	assert.False(t, EqualFold("Роман", "Романы"))
}

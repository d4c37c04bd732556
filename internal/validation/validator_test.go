package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

type noteRequest struct {
	BookID int      `json:"book_id" validate:"gt=0"`
	Page   int      `json:"page" validate:"gte=0"`
	Text   string   `json:"text" validate:"required,max=10"`
	Tags   []string `json:"tags,omitempty" validate:"omitempty,min=1,unique"`
	Role   string   `json:"-" validate:"omitempty,oneof=admin user"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(noteRequest{BookID: 1, Page: 5, Text: "a"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       noteRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required field",
			req:       noteRequest{BookID: 1},
			wantField: "text",
			wantMsg:   "is required",
		},
		{
			name:      "non-positive id",
			req:       noteRequest{BookID: 0, Text: "a"},
			wantField: "book_id",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "negative page",
			req:       noteRequest{BookID: 1, Page: -1, Text: "a"},
			wantField: "page",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name:      "string too long",
			req:       noteRequest{BookID: 1, Text: "far too long text"},
			wantField: "text",
			wantMsg:   "must not exceed 10 characters",
		},
		{
			name:      "duplicate items",
			req:       noteRequest{BookID: 1, Text: "a", Tags: []string{"x", "x"}},
			wantField: "tags",
			wantMsg:   "must not contain duplicates",
		},
		{
			name:      "untagged field falls back to Go name",
			req:       noteRequest{BookID: 1, Text: "a", Role: "guest"},
			wantField: "Role",
			wantMsg:   "must be one of: admin user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_CollectsAllFields(t *testing.T) {
	v := validation.New()

	err := v.Validate(noteRequest{Page: -3})

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Len(t, details, 3)
	assert.Contains(t, details, "book_id")
	assert.Contains(t, details, "page")
	assert.Contains(t, details, "text")
}

func TestValidator_NonStructInput(t *testing.T) {
	v := validation.New()

	err := v.Validate(42)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

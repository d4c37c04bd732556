package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/kv"
)

// failingStore fails every call with err.
type failingStore struct {
	kv.Store
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }

func sampleProgress() []domain.ReadingProgress {
	return []domain.ReadingProgress{
		{
			BookID:      1,
			CurrentPage: 42,
			TotalPages:  224,
			LastReadAt:  time.Date(2024, 3, 1, 12, 30, 15, 123_000_000, time.UTC),
			Notes:       []domain.Note{{Page: 5, Text: "a"}, {Page: 5, Text: "b"}},
		},
		{
			BookID:      7,
			CurrentPage: 480,
			TotalPages:  480,
			LastReadAt:  time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestProgress_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := New(kv.NewMemory(), nil)

	want := sampleProgress()
	require.NoError(t, a.SaveProgress(ctx, 2, want))

	got, err := a.LoadProgress(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProgress_TimestampsKeepMilliseconds(t *testing.T) {
	ctx := context.Background()
	a := New(kv.NewMemory(), nil)

	at := time.Date(2024, 3, 1, 12, 30, 15, 123_456_789, time.FixedZone("MSK", 3*3600))
	require.NoError(t, a.SaveProgress(ctx, 1, []domain.ReadingProgress{{BookID: 1, LastReadAt: at}}))

	got, err := a.LoadProgress(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, at.Truncate(time.Millisecond).Equal(got[0].LastReadAt))
	assert.Equal(t, time.UTC, got[0].LastReadAt.Location())
}

func TestProgress_WireShape(t *testing.T) {
	data, err := EncodeProgress(sampleProgress()[:1])
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"bookId": 1,
		"currentPage": 42,
		"totalPages": 224,
		"lastReadAt": "2024-03-01T12:30:15.123Z",
		"notes": [{"page": 5, "text": "a"}, {"page": 5, "text": "b"}]
	}]`, string(data))
}

func TestProgress_EmptyNotesEncodeAsArray(t *testing.T) {
	data, err := EncodeProgress([]domain.ReadingProgress{{BookID: 3, LastReadAt: time.Unix(0, 0)}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notes":[]`)
}

func TestProgress_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := New(kv.NewMemory(), nil)

	require.NoError(t, a.SaveProgress(ctx, 1, sampleProgress()))

	got, err := a.LoadProgress(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadProgress_MissingKey(t *testing.T) {
	a := New(kv.NewMemory(), nil)

	got, err := a.LoadProgress(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadProgress_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{{{`},
		{name: "wrong shape", raw: `{"bookId": 1}`},
		{name: "wrong field type", raw: `[{"bookId": "one"}]`},
		{name: "bad timestamp", raw: `[{"bookId": 1, "currentPage": 2, "totalPages": 3, "lastReadAt": "yesterday", "notes": []}]`},
		{name: "truncated", raw: `[{"bookId": 1, "currentPa`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemory()
			require.NoError(t, store.Set(ctx, kv.ProgressKey(1), []byte(tt.raw)))

			var logs bytes.Buffer
			a := New(store, slog.New(slog.NewJSONHandler(&logs, nil)))

			got, err := a.LoadProgress(ctx, 1)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Contains(t, logs.String(), "discarding malformed progress entry")
			assert.Contains(t, logs.String(), `"key":"userProgress_1"`)
		})
	}
}

func TestDecodeProgress_ReportsMalformedData(t *testing.T) {
	_, err := DecodeProgress([]byte(`nope`))
	assert.ErrorIs(t, err, domainerrors.ErrMalformedData)
}

func TestProgress_StorageFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	a := New(failingStore{err: boom}, nil)

	err := a.SaveProgress(ctx, 1, sampleProgress())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)

	_, err = a.LoadProgress(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestProgressUsers(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	a := New(store, nil)

	require.NoError(t, a.SaveProgress(ctx, 3, nil))
	require.NoError(t, a.SaveProgress(ctx, 1, nil))
	require.NoError(t, store.Set(ctx, "userProgress_bogus", []byte(`[]`)))
	require.NoError(t, a.SaveSession(ctx, domain.User{ID: 1, Username: "admin"}))

	ids, err := a.ProgressUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
}

func TestDeleteProgress(t *testing.T) {
	ctx := context.Background()
	a := New(kv.NewMemory(), nil)

	require.NoError(t, a.SaveProgress(ctx, 2, sampleProgress()))
	require.NoError(t, a.DeleteProgress(ctx, 2))
	require.NoError(t, a.DeleteProgress(ctx, 2))

	ids, err := a.ProgressUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

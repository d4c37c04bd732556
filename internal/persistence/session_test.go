package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/kv"
)

func TestSession_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := New(kv.NewMemory(), nil)

	_, ok, err := a.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	u := domain.User{
		ID:          2,
		Username:    "user1",
		DisplayName: "Иван Петров",
		Role:        domain.RoleUser,
		AvatarURL:   "https://images.pexels.com/photos/2379005/pexels-photo-2379005.jpeg",
		Age:         25,
	}
	require.NoError(t, a.SaveSession(ctx, u))

	got, ok, err := a.LoadSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, u, got)

	require.NoError(t, a.ClearSession(ctx))
	_, ok, err = a.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_NoPasswordOnDisk(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	a := New(store, nil)

	require.NoError(t, a.SaveSession(ctx, domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}))

	raw, err := store.Get(ctx, kv.CurrentUserKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestSession_CorruptSlotIsCleared(t *testing.T) {
	for _, raw := range []string{`not json`, `{"id": 0}`, `[]`} {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemory()
			require.NoError(t, store.Set(ctx, kv.CurrentUserKey, []byte(raw)))
			a := New(store, nil)

			_, ok, err := a.LoadSession(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = store.Get(ctx, kv.CurrentUserKey)
			assert.ErrorIs(t, err, kv.ErrKeyNotFound)
		})
	}
}

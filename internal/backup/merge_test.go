package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/kv"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

func TestMergeProgress(t *testing.T) {
	local := []domain.ReadingProgress{
		{BookID: 1, CurrentPage: 10},
		{BookID: 2, CurrentPage: 20},
	}
	incoming := []domain.ReadingProgress{
		{BookID: 2, CurrentPage: 99},
		{BookID: 3, CurrentPage: 30},
	}

	tests := []struct {
		strategy MergeStrategy
		want     []domain.ReadingProgress
	}{
		{
			strategy: MergeKeepLocal,
			want: []domain.ReadingProgress{
				{BookID: 1, CurrentPage: 10},
				{BookID: 2, CurrentPage: 20},
				{BookID: 3, CurrentPage: 30},
			},
		},
		{
			strategy: MergeKeepBackup,
			want: []domain.ReadingProgress{
				{BookID: 1, CurrentPage: 10},
				{BookID: 2, CurrentPage: 99},
				{BookID: 3, CurrentPage: 30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			assert.Equal(t, tt.want, mergeProgress(local, incoming, tt.strategy))
		})
	}
}

func TestMergeProgress_DoesNotMutateLocal(t *testing.T) {
	local := []domain.ReadingProgress{{BookID: 1, CurrentPage: 10}}
	_ = mergeProgress(local, []domain.ReadingProgress{{BookID: 1, CurrentPage: 50}}, MergeKeepBackup)

	assert.Equal(t, 10, local[0].CurrentPage)
}

func TestRestore_MergeKeepsUsersOutsideArchive(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)

	src := persistence.New(kv.NewMemory(), nil)
	require.NoError(t, src.SaveProgress(ctx, 2, []domain.ReadingProgress{
		{BookID: 1, CurrentPage: 200, TotalPages: 224, LastReadAt: now},
	}))
	created, err := NewService(Deps{Adapter: src, BackupDir: t.TempDir()}).Create(ctx, BackupOptions{})
	require.NoError(t, err)

	dst := persistence.New(kv.NewMemory(), nil)
	require.NoError(t, dst.SaveProgress(ctx, 2, []domain.ReadingProgress{
		{BookID: 1, CurrentPage: 50, TotalPages: 224, LastReadAt: now},
		{BookID: 4, CurrentPage: 7, TotalPages: 320, LastReadAt: now},
	}))
	require.NoError(t, dst.SaveProgress(ctx, 3, []domain.ReadingProgress{
		{BookID: 5, CurrentPage: 1, TotalPages: 500, LastReadAt: now},
	}))

	svc := NewService(Deps{Adapter: dst})
	result, err := svc.Restore(ctx, created.Path, RestoreOptions{Mode: RestoreModeMerge})
	require.NoError(t, err)
	assert.Zero(t, result.Imported["removed_users"])

	list, err := dst.LoadProgress(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 50, list[0].CurrentPage, "keep_local is the default strategy")

	users, err := dst.ProgressUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, users)
}

package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/storage"
)

func TestMemStore_RootAlwaysExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	ok, err := store.Exists(ctx, "")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	require.NoError(t, store.Put(ctx, "a.txt", []byte("abc")))

	data, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	data[0] = 'X'

	again, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}

func TestMemStore_ImplicitDirectories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	require.NoError(t, store.Put(ctx, "galleries/tokyo/a.jpg", []byte("a")))

	// The parent directory exists purely because an object lives under it.
	ok, err := store.Exists(ctx, "galleries/tokyo")
	require.NoError(t, err)
	require.True(t, ok)

	entries, err := store.List(ctx, "galleries")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "galleries/tokyo", entries[0].Path)
	require.True(t, entries[0].IsDir)
}

func TestMemStore_ListMixesFilesAndDirsSorted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	require.NoError(t, store.Put(ctx, "galleries/zoo/a.jpg", []byte("a")))
	require.NoError(t, store.Put(ctx, "galleries/about.txt", []byte("t")))
	require.NoError(t, store.CreateDir(ctx, "galleries/empty"))

	entries, err := store.List(ctx, "galleries")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "galleries/about.txt", entries[0].Path)
	require.Equal(t, "galleries/empty", entries[1].Path)
	require.Equal(t, "galleries/zoo", entries[2].Path)
}

func TestMemStore_ClockStampsModification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := storage.NewMemStore().WithClock(internal.NewFixedClock(now))

	require.NoError(t, store.Put(ctx, "a.txt", []byte("a")))

	entries, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].LastModified.Equal(now))
}

func TestMemStore_DeleteDirRemovesSubtree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	require.NoError(t, store.Put(ctx, "galleries/tokyo/a.jpg", []byte("a")))
	require.NoError(t, store.Put(ctx, "galleries/tokyo/nested/b.jpg", []byte("b")))
	require.NoError(t, store.Put(ctx, "galleries/osaka/c.jpg", []byte("c")))

	require.NoError(t, store.DeleteDir(ctx, "galleries/tokyo"))

	ok, err := store.Exists(ctx, "galleries/tokyo")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.Exists(ctx, "galleries/osaka/c.jpg")
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, store.DeleteDir(ctx, ""), storage.ErrInvalidPath)
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "shared.txt", []byte("x"))
			_, _ = store.Get(ctx, "shared.txt")
			_, _ = store.List(ctx, "")
		}()
	}
	wg.Wait()

	data, err := store.Get(ctx, "shared.txt")
	require.NoError(t, err)
	require.Equal(t, "x", string(data))
}

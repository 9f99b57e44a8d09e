package cli_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/cli"
	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// runCmd executes the CLI against an injected in-memory store and
// returns stdout.
func runCmd(t *testing.T, store storage.Store, args ...string) (string, error) {
	t.Helper()

	logger, _ := log.NewTestLogger(t)
	deps := &cli.Deps{
		Store:  store,
		Clock:  internal.NewFixedClock(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)),
		Logger: logger,
	}
	cmd := cli.NewRootCmd(deps)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedStore(t *testing.T) *storage.MemStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemStore()
	require.NoError(t, store.Put(ctx, "galleries/alps/a.jpg", []byte("jpegbytes")))
	require.NoError(t, store.Put(ctx, "galleries/alps/gallery.yaml", []byte("tags: [travel]\n")))
	require.NoError(t, store.Put(ctx, "blog/hello.md", []byte("---\ntitle: Hello\n---\nHi.\n")))
	require.NoError(t, store.Put(ctx, "pages/about.md", []byte("About.\n")))
	return store
}

func TestRebuildCmd(t *testing.T) {
	store := seedStore(t)

	out, err := runCmd(t, store, "rebuild")
	require.NoError(t, err)
	require.Contains(t, out, "index v1")
	require.Contains(t, out, "1 galleries")
	require.Contains(t, out, "1 posts")
	require.Contains(t, out, "1 pages")

	// The blob landed in the same store.
	ok, err := store.Exists(context.Background(), ".luma/index.json")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInvalidateCmd(t *testing.T) {
	store := seedStore(t)

	_, err := runCmd(t, store, "rebuild")
	require.NoError(t, err)

	out, err := runCmd(t, store, "invalidate")
	require.NoError(t, err)
	require.Contains(t, out, "index invalidated")

	ok, err := store.Exists(context.Background(), ".luma/index.stale")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStatsCmd(t *testing.T) {
	store := seedStore(t)

	out, err := runCmd(t, store, "stats")
	require.NoError(t, err)
	require.Contains(t, out, "galleries:     1")
	require.Contains(t, out, "photos:        1")
	require.Contains(t, out, "posts:         1")
	require.Contains(t, out, "pages:         1")
}

func TestStatsCmdJSON(t *testing.T) {
	store := seedStore(t)

	out, err := runCmd(t, store, "stats", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"version": 1`)
	require.Contains(t, out, `"travel": 1`)
}

func TestPasswordCmd(t *testing.T) {
	store := seedStore(t)

	out, err := runCmd(t, store, "password", "alps", "hunter2")
	require.NoError(t, err)
	require.Contains(t, out, "password set")

	out, err = runCmd(t, store, "password", "alps", "--clear")
	require.NoError(t, err)
	require.Contains(t, out, "password cleared")

	_, err = runCmd(t, store, "password", "alps")
	require.Error(t, err)
}

func TestTokenCmdRequiresSecret(t *testing.T) {
	// No config file and no env secret: minting must fail loudly.
	_, err := runCmd(t, storage.NewMemStore(), "token")
	require.Error(t, err)
}

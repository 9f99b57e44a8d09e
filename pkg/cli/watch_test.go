package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/log"
)

func TestHasDotElement(t *testing.T) {
	t.Parallel()

	root := filepath.Join("srv", "content")
	cases := []struct {
		name string
		path string
		want bool
	}{
		{name: "root itself", path: root, want: false},
		{name: "plain file", path: filepath.Join(root, "blog", "post.md"), want: false},
		{name: "cache dir", path: filepath.Join(root, ".luma"), want: true},
		{name: "cache blob", path: filepath.Join(root, ".luma", "index.json"), want: true},
		{name: "editor swap file", path: filepath.Join(root, "blog", ".post.md.swp"), want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, hasDotElement(root, tc.path))
		})
	}
}

// Cache writes land under the content root, so the watcher must not
// treat them as content changes or each invalidation would schedule
// the next one forever.
func TestWatchContentIgnoresCacheWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "galleries", "alps"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".luma"), 0o755))

	var calls atomic.Int64
	logger, _ := log.NewTestLogger(t)
	stop, err := watchContent(ctx, root, func(context.Context) error {
		calls.Add(1)
		return nil
	}, logger)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".luma", "index.stale"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".luma", "index.json"), []byte("{}"), 0o644))
	time.Sleep(4 * watchDebounce)
	require.Zero(t, calls.Load())

	// A real content change still invalidates.
	require.NoError(t, os.WriteFile(filepath.Join(root, "galleries", "alps", "a.jpg"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 25*time.Millisecond)

	// One burst, one invalidation. Nothing keeps re-triggering after.
	time.Sleep(4 * watchDebounce)
	require.EqualValues(t, 1, calls.Load())
}

package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractFrontmatter(t *testing.T) {
	t.Parallel()

	t.Run("fenced block", func(t *testing.T) {
		t.Parallel()
		doc := []byte("---\ntitle: Hello\ntags: [a, b]\n---\nBody text.\n")
		fm, body, err := extractFrontmatter(doc)
		require.NoError(t, err)
		require.Equal(t, "Hello", fm["title"])
		require.Equal(t, "Body text.\n", string(body))
	})

	t.Run("no fence", func(t *testing.T) {
		t.Parallel()
		doc := []byte("Just a body.\n")
		fm, body, err := extractFrontmatter(doc)
		require.NoError(t, err)
		require.Nil(t, fm)
		require.Equal(t, doc, body)
	})

	t.Run("bom before fence", func(t *testing.T) {
		t.Parallel()
		doc := []byte("\xef\xbb\xbf---\ntitle: X\n---\nBody.\n")
		fm, _, err := extractFrontmatter(doc)
		require.NoError(t, err)
		require.Equal(t, "X", fm["title"])
	})

	t.Run("unclosed fence is an error", func(t *testing.T) {
		t.Parallel()
		doc := []byte("---\ntitle: Broken\nno closing fence")
		_, _, err := extractFrontmatter(doc)
		require.Error(t, err)
	})

	t.Run("malformed yaml is an error but body survives", func(t *testing.T) {
		t.Parallel()
		doc := []byte("---\ntitle: [unbalanced\n---\nStill the body.\n")
		_, body, err := extractFrontmatter(doc)
		require.Error(t, err)
		require.Equal(t, "Still the body.\n", string(body))
	})

	t.Run("empty block", func(t *testing.T) {
		t.Parallel()
		doc := []byte("---\n---\nbody text\n")
		fm, body, err := extractFrontmatter(doc)
		require.NoError(t, err)
		require.Nil(t, fm)
		require.Equal(t, "body text\n", string(body))
	})

	t.Run("empty block at end of file", func(t *testing.T) {
		t.Parallel()
		fm, body, err := extractFrontmatter([]byte("---\n---"))
		require.NoError(t, err)
		require.Nil(t, fm)
		require.Empty(t, body)
	})

	t.Run("blank line before closing fence", func(t *testing.T) {
		t.Parallel()
		fm, body, err := extractFrontmatter([]byte("---\n\n---\nbody\n"))
		require.NoError(t, err)
		require.Nil(t, fm)
		require.Equal(t, "body\n", string(body))
	})

	t.Run("horizontal rule without newline after dashes", func(t *testing.T) {
		t.Parallel()
		doc := []byte("----\nnot front-matter\n")
		fm, body, err := extractFrontmatter(doc)
		require.NoError(t, err)
		require.Nil(t, fm)
		require.Equal(t, doc, body)
	})
}

func TestFmTags(t *testing.T) {
	t.Parallel()

	t.Run("sequence", func(t *testing.T) {
		t.Parallel()
		fm := map[string]any{"tags": []any{"travel", " japan ", ""}}
		require.Equal(t, []string{"travel", "japan"}, fmTags(fm, "tags"))
	})

	t.Run("comma string", func(t *testing.T) {
		t.Parallel()
		fm := map[string]any{"tags": "travel, japan,,go"}
		require.Equal(t, []string{"travel", "japan", "go"}, fmTags(fm, "tags"))
	})

	t.Run("case preserved", func(t *testing.T) {
		t.Parallel()
		fm := map[string]any{"tags": []any{"Travel", "travel"}}
		require.Equal(t, []string{"Travel", "travel"}, fmTags(fm, "tags"))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, fmTags(map[string]any{}, "tags"))
		require.Nil(t, fmTags(nil, "tags"))
	})
}

func TestFmDate(t *testing.T) {
	t.Parallel()

	t.Run("yaml native timestamp", func(t *testing.T) {
		t.Parallel()
		want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
		got, err := fmDate(map[string]any{"date": want}, "date")
		require.NoError(t, err)
		require.True(t, got.Equal(want))
	})

	t.Run("string layouts", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{
			"2024-05-10T08:30:00Z",
			"2024-05-10 08:30:00",
			"2024-05-10 08:30",
			"2024-05-10",
		} {
			got, err := fmDate(map[string]any{"date": s}, "date")
			require.NoError(t, err, s)
			require.NotNil(t, got, s)
			require.Equal(t, 2024, got.Year(), s)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()
		_, err := fmDate(map[string]any{"date": "last tuesday"}, "date")
		require.Error(t, err)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		got, err := fmDate(map[string]any{}, "date")
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

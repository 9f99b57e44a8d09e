package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/content"
)

func TestEngineGalleries_VisibilityFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	public, err := engine.Galleries(ctx, false)
	require.NoError(t, err)
	slugs := make([]string, 0, len(public))
	for _, g := range public {
		slugs = append(slugs, g.Slug)
	}
	require.Equal(t, []string{"alps", "tokyo-2024"}, slugs)

	all, err := engine.Galleries(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestEngineGalleryBySlug(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	g, err := engine.GalleryBySlug(ctx, "tokyo-2024")
	require.NoError(t, err)
	require.Equal(t, "Tokyo 2024", g.Title)

	_, err = engine.GalleryBySlug(ctx, "nope")
	require.True(t, content.IsNotFound(err))
}

func TestEnginePosts_DraftFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	published, err := engine.Posts(ctx, false)
	require.NoError(t, err)
	for _, p := range published {
		require.False(t, p.Draft, "draft %q leaked into the published listing", p.Slug)
	}
	require.Len(t, published, 4)

	all, err := engine.Posts(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 5)
}

func TestEnginePages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	pages, err := engine.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, "about", pages[0].Slug)
	require.Equal(t, "contact", pages[1].Slug)

	pg, err := engine.PageBySlug(ctx, "about")
	require.NoError(t, err)
	require.Equal(t, "About", pg.Title)
}

func TestEnginePagesExcludeHidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, store, _ := newTestEngine(t)

	require.NoError(t, store.Put(ctx, "pages/secret.md",
		[]byte("---\ntitle: Secret\nhidden: true\n---\nNot for listings.\n")))

	pages, err := engine.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	for _, p := range pages {
		require.False(t, p.Hidden, "hidden page %q leaked into the listing", p.Slug)
	}

	// Direct slug access stays open, same convention as hidden galleries.
	pg, err := engine.PageBySlug(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "Secret", pg.Title)
}

func TestEngineTags_SortedByCountThenName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	tags, err := engine.Tags(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	require.Equal(t, content.TagCount{Tag: "travel", Count: 3}, tags[0])
	for i := 1; i < len(tags); i++ {
		if tags[i-1].Count == tags[i].Count {
			require.Less(t, tags[i-1].Tag, tags[i].Tag)
		} else {
			require.Greater(t, tags[i-1].Count, tags[i].Count)
		}
	}
}

func TestEngineNavigation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	nav, err := engine.Navigation(ctx)
	require.NoError(t, err)

	// Private is out; hidden stays (visibility in listings only).
	slugs := make([]string, 0, len(nav))
	for _, n := range nav {
		slugs = append(slugs, n.Slug)
	}
	require.Equal(t, []string{"alps", "tokyo-2024", "hidden-gal"}, slugs)
}

package content_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/content"
)

func gal(slug, title, parent string, order *int, private bool) content.Gallery {
	g := content.Gallery{}
	g.Slug = slug
	g.Title = title
	g.ParentSlug = parent
	g.Order = order
	g.Private = private
	return g
}

func intp(n int) *int { return &n }

func TestBuildNavigation_OrderedBeforeUnordered(t *testing.T) {
	t.Parallel()

	nav := content.BuildNavigation([]content.Gallery{
		gal("a", "A", "", intp(1), false),
		gal("b", "B", "", nil, false),
		gal("c", "C", "", intp(0), false),
	})

	require.Len(t, nav, 3)
	require.Equal(t, "c", nav[0].Slug)
	require.Equal(t, "a", nav[1].Slug)
	require.Equal(t, "b", nav[2].Slug)
}

func TestBuildNavigation_UnorderedKeepIncomingSequence(t *testing.T) {
	t.Parallel()

	nav := content.BuildNavigation([]content.Gallery{
		gal("zebra", "Zebra", "", nil, false),
		gal("apple", "Apple", "", nil, false),
	})

	require.Equal(t, "zebra", nav[0].Slug)
	require.Equal(t, "apple", nav[1].Slug)
}

func TestBuildNavigation_ChildrenAttachToParent(t *testing.T) {
	t.Parallel()

	nav := content.BuildNavigation([]content.Gallery{
		gal("travel", "Travel", "", nil, false),
		gal("tokyo", "Tokyo", "travel", intp(2), false),
		gal("alps", "Alps", "travel", intp(1), false),
	})

	require.Len(t, nav, 1)
	require.Equal(t, "travel", nav[0].Slug)
	require.Len(t, nav[0].Children, 2)
	require.Equal(t, "alps", nav[0].Children[0].Slug)
	require.Equal(t, "tokyo", nav[0].Children[1].Slug)
}

func TestBuildNavigation_PrivateExcludedEntirely(t *testing.T) {
	t.Parallel()

	nav := content.BuildNavigation([]content.Gallery{
		gal("public", "Public", "", nil, false),
		gal("vault", "Vault", "", nil, true),
		// A child of a private parent must not vanish with it.
		gal("orphan", "Orphan", "vault", nil, false),
	})

	require.Len(t, nav, 2)
	require.Equal(t, "public", nav[0].Slug)
	require.Equal(t, "orphan", nav[1].Slug)
}

func TestBuildNavigation_UnknownOrSelfParentSurfacesAtRoot(t *testing.T) {
	t.Parallel()

	nav := content.BuildNavigation([]content.Gallery{
		gal("dangling", "Dangling", "no-such-slug", nil, false),
		gal("selfie", "Selfie", "selfie", nil, false),
	})

	require.Len(t, nav, 2)
	require.Equal(t, "dangling", nav[0].Slug)
	require.Equal(t, "selfie", nav[1].Slug)
}

func TestBuildNavigation_Empty(t *testing.T) {
	t.Parallel()
	require.Empty(t, content.BuildNavigation(nil))
}

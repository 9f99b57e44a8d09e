package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/content"
	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/storage"
)

// fixtureNow is the fixed instant test clocks start at.
var fixtureNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

// secretGalleryPassword protects the "secret" fixture gallery.
const secretGalleryPassword = "letmein"

// seedSite populates store with a small but representative content tree:
// ordered and unordered galleries, a protected gallery, hidden entries,
// both post shapes, a draft and an undated post, and two pages.
func seedSite(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	put := func(path, body string) {
		t.Helper()
		require.NoError(t, store.Put(ctx, path, []byte(body)))
	}

	// Galleries. Ordered: alps (1), tokyo 2024 (2). Unordered: hidden-gal,
	// secret.
	put("galleries/alps/a.jpg", "jpegbytes-a")
	put("galleries/alps/b.jpg", "jpegbytes-b")
	put("galleries/alps/gallery.yaml", "order: 1\ntags:\n  - travel\n")

	put("galleries/tokyo 2024/dsc01.jpg", "jpegbytes-1")
	put("galleries/tokyo 2024/dsc02.jpg", "jpegbytes-2")
	put("galleries/tokyo 2024/night.jpg", "jpegbytes-3")
	put("galleries/tokyo 2024/gallery.yaml",
		"title: Tokyo 2024\norder: 2\ncover: dsc02.jpg\ntags:\n  - travel\n  - japan\n")
	put("galleries/tokyo 2024/photos.yaml",
		"dsc01.jpg:\n  title: Shibuya Crossing\nnight.jpg:\n  hidden: true\n")

	put("galleries/hidden-gal/h.jpg", "jpegbytes-h")
	put("galleries/hidden-gal/gallery.yaml", "hidden: true\n")

	hash, err := content.HashPassword(secretGalleryPassword)
	require.NoError(t, err)
	put("galleries/secret/s.jpg", "jpegbytes-s")
	put("galleries/secret/gallery.yaml", "private: true\npassword: "+hash+"\n")

	// Blog. Both shapes, a draft, an undated post and a stray file.
	put("blog/first-post.md", `---
title: First Post
date: 2024-05-10
tags: [travel, go]
---
Opening paragraph of the first post.

![alps](../galleries/alps/a.jpg)
`)
	put("blog/second-post.md", `---
date: 2024-06-01
---
Second post body.
`)
	put("blog/draft-post.md", `---
date: 2024-06-20
draft: true
tags: [secret-tag]
---
Not published yet.
`)
	put("blog/undated.md", "No front-matter at all.\n")
	put("blog/my-trip/index.md", `---
title: My Trip
date: 2024-01-15
---
Directory-shaped post.
`)
	put("blog/my-trip/map.png", "pngbytes")
	put("blog/notes.txt", "not an entry")

	// Pages.
	put("pages/about.md", `---
title: About
---
All about this site.
`)
	put("pages/contact.md", "Reach me by carrier pigeon.\n")
}

// newTestEngine builds an engine over a seeded in-memory store with a
// deterministic clock.
func newTestEngine(t *testing.T) (*content.Engine, *storage.MemStore, *internal.FixedClock) {
	t.Helper()
	clock := internal.NewFixedClock(fixtureNow)
	store := storage.NewMemStore().WithClock(clock)
	seedSite(t, store)
	engine := content.NewEngine(store, content.WithClock(clock))
	return engine, store, clock
}

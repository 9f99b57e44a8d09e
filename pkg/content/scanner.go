package content

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// Convention directories under the content root.
const (
	GalleriesDir = "galleries"
	BlogDir      = "blog"
	PagesDir     = "pages"
)

// Scanner produces an Index from a one-time traversal of the storage
// namespace. It holds no state between scans; every Scan is a fresh
// walk, so repeated scans over unchanged content yield equal indexes.
type Scanner struct {
	store  storage.Store
	logger *slog.Logger
}

// NewScanner returns a Scanner reading through store.
func NewScanner(store storage.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Scanner{store: store, logger: logger}
}

// Scan walks galleries/, blog/ and pages/ and aggregates the result.
//
// Failure policy: malformed per-entry files degrade to defaults and
// become Warnings on the returned index. Storage faults and slug
// collisions abort the scan. A missing content root is ErrRootMissing,
// a hard failure distinct from an index that merely hasn't been built.
func (s *Scanner) Scan(ctx context.Context) (*Index, error) {
	ok, err := s.store.Exists(ctx, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRootMissing
	}

	ix := &Index{Tags: map[string]int{}}

	if err := s.scanGalleries(ctx, ix); err != nil {
		return nil, err
	}
	if err := s.scanPosts(ctx, ix); err != nil {
		return nil, err
	}
	if err := s.scanPages(ctx, ix); err != nil {
		return nil, err
	}

	s.aggregateTags(ix)

	ix.Stats = Stats{
		Galleries: len(ix.Galleries),
		Posts:     len(ix.Posts),
		Pages:     len(ix.Pages),
	}
	for i := range ix.Galleries {
		ix.Stats.Photos += len(ix.Galleries[i].Photos)
	}

	s.logger.Debug("scan complete",
		"galleries", ix.Stats.Galleries,
		"photos", ix.Stats.Photos,
		"posts", ix.Stats.Posts,
		"pages", ix.Stats.Pages,
		"warnings", len(ix.Warnings))
	return ix, nil
}

func (s *Scanner) scanGalleries(ctx context.Context, ix *Index) error {
	entries, err := s.store.List(ctx, GalleriesDir)
	if err != nil {
		return err
	}

	seen := map[string]string{} // slug -> path
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		g, warns, err := s.scanGallery(ctx, e.Path)
		if err != nil {
			return err
		}
		ix.Warnings = append(ix.Warnings, warns...)

		if prev, dup := seen[g.Slug]; dup {
			return NewSlugCollisionError(KindGallery, g.Slug, prev, g.Path)
		}
		seen[g.Slug] = g.Path
		ix.Galleries = append(ix.Galleries, g)
	}

	sortByOrder(ix.Galleries, func(g *Gallery) *int { return g.Order }, func(g *Gallery) string { return g.Slug })
	return nil
}

func (s *Scanner) scanPosts(ctx context.Context, ix *Index) error {
	entries, err := s.store.List(ctx, BlogDir)
	if err != nil {
		return err
	}

	seen := map[string]string{}
	for _, e := range entries {
		raw, srcPath, slug, skip, err := s.readDocument(ctx, e, ix)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		post, warn := parsePost(srcPath, slug, raw)
		if warn != nil {
			ix.Warnings = append(ix.Warnings, *warn)
		}
		if prev, dup := seen[post.Slug]; dup {
			return NewSlugCollisionError(KindPost, post.Slug, prev, post.Path)
		}
		seen[post.Slug] = post.Path
		ix.Posts = append(ix.Posts, post)
	}

	// Newest first; posts without a date sort to the oldest position.
	sort.SliceStable(ix.Posts, func(i, j int) bool {
		a, b := ix.Posts[i].Date, ix.Posts[j].Date
		switch {
		case a == nil && b == nil:
			return ix.Posts[i].Slug < ix.Posts[j].Slug
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		}
		return ix.Posts[i].Slug < ix.Posts[j].Slug
	})
	return nil
}

func (s *Scanner) scanPages(ctx context.Context, ix *Index) error {
	entries, err := s.store.List(ctx, PagesDir)
	if err != nil {
		return err
	}

	seen := map[string]string{}
	for _, e := range entries {
		raw, srcPath, slug, skip, err := s.readDocument(ctx, e, ix)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		page, warn := parsePage(srcPath, slug, raw)
		if warn != nil {
			ix.Warnings = append(ix.Warnings, *warn)
		}
		if prev, dup := seen[page.Slug]; dup {
			return NewSlugCollisionError(KindPage, page.Slug, prev, page.Path)
		}
		seen[page.Slug] = page.Path
		ix.Pages = append(ix.Pages, page)
	}

	sort.Slice(ix.Pages, func(i, j int) bool { return ix.Pages[i].Slug < ix.Pages[j].Slug })
	return nil
}

// readDocument resolves the two accepted entry shapes: a bare markdown
// file, or a directory holding index.md plus assets. skip is true for
// anything else (stray files, asset-only directories), which is recorded
// as a warning only for directories that look like entries.
func (s *Scanner) readDocument(ctx context.Context, e storage.Entry, ix *Index) (raw []byte, srcPath, slug string, skip bool, err error) {
	name := e.Name()
	if !e.IsDir {
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			return nil, "", "", true, nil
		}
		raw, err = s.store.Get(ctx, e.Path)
		if err != nil {
			return nil, "", "", false, err
		}
		return raw, e.Path, Slugify(strings.TrimSuffix(name, ".md")), false, nil
	}

	srcPath = e.Path + "/index.md"
	raw, err = s.store.Get(ctx, srcPath)
	if err != nil {
		if storage.IsNotExist(err) {
			ix.Warnings = append(ix.Warnings, warningf(e.Path, "directory entry has no index.md"))
			return nil, "", "", true, nil
		}
		return nil, "", "", false, err
	}
	return raw, srcPath, Slugify(name), false, nil
}

// aggregateTags counts tag occurrences across galleries and published
// posts, one per entry. Counting stays case-sensitive.
func (s *Scanner) aggregateTags(ix *Index) {
	for i := range ix.Galleries {
		for _, t := range ix.Galleries[i].Tags {
			ix.Tags[t]++
		}
	}
	for i := range ix.Posts {
		if ix.Posts[i].Draft {
			continue
		}
		for _, t := range ix.Posts[i].Tags {
			ix.Tags[t]++
		}
	}
}

// sortByOrder applies the manual-order rule: entries with an explicit
// order first, ascending; the rest after, keeping their existing relative
// order (which for scan output is name order).
func sortByOrder[T any](items []T, order func(*T) *int, slug func(*T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := order(&items[i]), order(&items[j])
		switch {
		case a == nil && b == nil:
			return false // keep scan order
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}
		return slug(&items[i]) < slug(&items[j])
	})
}

package content

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// Engine is the facade collaborators talk to: cached index reads, per-kind
// accessors, the image resolver and the content write path, all over one
// storage adapter.
type Engine struct {
	store  storage.Store
	cache  *Cache
	clock  internal.Clock
	logger *slog.Logger
}

// EngineOption configures an Engine during construction.
type EngineOption func(*Engine)

// WithClock injects a deterministic clock, mainly for tests.
func WithClock(clock internal.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger injects the logger used by the engine and its parts.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine wires an Engine over store.
func NewEngine(store storage.Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store}
	for _, o := range opts {
		if o != nil {
			o(e)
		}
	}
	if e.clock == nil {
		e.clock = internal.RealClock{}
	}
	if e.logger == nil {
		e.logger = log.NewNopLogger()
	}
	scanner := NewScanner(store, e.logger)
	e.cache = NewCache(store, scanner, e.clock, e.logger)
	return e
}

// GetIndex returns the current valid index, rebuilding if necessary.
func (e *Engine) GetIndex(ctx context.Context) (*Index, error) {
	return e.cache.GetIndex(ctx)
}

// Rebuild forces a fresh scan and persists the result.
func (e *Engine) Rebuild(ctx context.Context) (*Index, error) {
	return e.cache.Rebuild(ctx)
}

// Invalidate marks the persisted index stale.
func (e *Engine) Invalidate(ctx context.Context) error {
	return e.cache.Invalidate(ctx)
}

// Galleries lists galleries. Hidden and private ones are excluded unless
// includeHidden is set (admin views pass true).
func (e *Engine) Galleries(ctx context.Context, includeHidden bool) ([]Gallery, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	if includeHidden {
		return ix.Galleries, nil
	}
	out := make([]Gallery, 0, len(ix.Galleries))
	for _, g := range ix.Galleries {
		if g.Hidden || g.Private {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// GalleryBySlug finds one gallery. Missing slugs yield ErrNotFound.
func (e *Engine) GalleryBySlug(ctx context.Context, slug string) (*Gallery, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	if g := ix.GalleryBySlug(slug); g != nil {
		return g, nil
	}
	return nil, ErrNotFound
}

// Posts lists posts newest first. Drafts are excluded unless includeDrafts
// is set.
func (e *Engine) Posts(ctx context.Context, includeDrafts bool) ([]Post, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	if includeDrafts {
		return ix.Posts, nil
	}
	out := make([]Post, 0, len(ix.Posts))
	for _, p := range ix.Posts {
		if p.Draft || p.Hidden {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PostBySlug finds one post. Missing slugs yield ErrNotFound.
func (e *Engine) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	if p := ix.PostBySlug(slug); p != nil {
		return p, nil
	}
	return nil, ErrNotFound
}

// Pages lists pages sorted by slug. Hidden pages are excluded from the
// listing but stay reachable through PageBySlug.
func (e *Engine) Pages(ctx context.Context) ([]Page, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Page, 0, len(ix.Pages))
	for _, p := range ix.Pages {
		if p.Hidden {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PageBySlug finds one page. Missing slugs yield ErrNotFound.
func (e *Engine) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	if p := ix.PageBySlug(slug); p != nil {
		return p, nil
	}
	return nil, ErrNotFound
}

// Tags returns the tag counts as a stable, sorted list.
func (e *Engine) Tags(ctx context.Context) ([]TagCount, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TagCount, 0, len(ix.Tags))
	for tag, n := range ix.Tags {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

// TagCount pairs a tag with its occurrence count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Navigation derives the gallery navigation tree from the current index.
func (e *Engine) Navigation(ctx context.Context) ([]NavNode, error) {
	ix, err := e.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	return BuildNavigation(ix.Galleries), nil
}

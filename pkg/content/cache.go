package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// The persisted index lives under a dot-directory so a traversal of the
// convention dirs can never mistake it for user content.
const (
	IndexBlobPath   = ".luma/index.json"
	staleMarkerPath = ".luma/index.stale"
)

// Cache owns the lifecycle of the persisted index blob: it is the only
// component that writes, replaces or invalidates it. Because invocations
// are stateless, the cache lives in the same storage substrate as the
// content itself; durability costs one Get per read and one Put per
// rebuild.
//
// There is no distributed lock. Concurrent rebuilds are tolerated: a
// rebuild is deterministic for a given content tree and every write is a
// whole-blob replacement at one well-known path, so the last writer wins
// and no reader ever observes a half-written index.
type Cache struct {
	store   storage.Store
	scanner *Scanner
	clock   internal.Clock
	logger  *slog.Logger
}

// NewCache wires a Cache over store using scanner for rebuilds.
func NewCache(store storage.Store, scanner *Scanner, clock internal.Clock, logger *slog.Logger) *Cache {
	if clock == nil {
		clock = internal.RealClock{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Cache{store: store, scanner: scanner, clock: clock, logger: logger}
}

// GetIndex returns the current valid index, rebuilding when none exists
// or the stored copy has been invalidated.
//
// Availability over freshness: when a rebuild fails but a previously
// persisted index is still readable, that stale copy is served and the
// rebuild error only logged. Callers with no index at all get the error.
func (c *Cache) GetIndex(ctx context.Context) (*Index, error) {
	persisted := c.loadPersisted(ctx)
	stale, err := c.isStale(ctx)
	if err != nil {
		return nil, err
	}

	if persisted != nil && !stale {
		return persisted, nil
	}

	rebuilt, err := c.Rebuild(ctx)
	if err != nil {
		if persisted != nil {
			c.logger.Warn("rebuild failed, serving stale index",
				"error", err, "staleVersion", persisted.Version)
			return persisted, nil
		}
		return nil, err
	}
	return rebuilt, nil
}

// Rebuild forces a fresh scan, persists the result and returns it. A
// failed scan leaves the previous blob untouched: a broken rebuild must
// never destroy a working cache.
func (c *Cache) Rebuild(ctx context.Context) (*Index, error) {
	ix, err := c.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	ix.UpdatedAt = c.clock.Now().UTC()
	ix.Version = 1
	if prev := c.loadPersisted(ctx); prev != nil {
		ix.Version = prev.Version + 1
	}

	blob, err := json.Marshal(ix)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, IndexBlobPath, blob); err != nil {
		return nil, err
	}
	// Clear the stale marker only after the replacement blob landed.
	if err := c.store.Delete(ctx, staleMarkerPath); err != nil {
		c.logger.Warn("could not clear stale marker", "error", err)
	}

	c.logger.Info("index rebuilt", "version", ix.Version, "warnings", len(ix.Warnings))
	return ix, nil
}

// Invalidate marks the persisted index stale without rebuilding. The next
// GetIndex pays for the rebuild. Calling it again before that rebuild is
// an idempotent no-op.
func (c *Cache) Invalidate(ctx context.Context) error {
	ts := internal.ISO8601(c.clock)
	if err := c.store.PutText(ctx, staleMarkerPath, ts+"\n"); err != nil {
		return err
	}
	c.logger.Info("index invalidated", "at", ts)
	return nil
}

// loadPersisted reads and decodes the stored blob. Absent or undecodable
// blobs both come back nil; an unreadable blob is indistinguishable from
// no blob and simply triggers a rebuild.
func (c *Cache) loadPersisted(ctx context.Context) *Index {
	blob, err := c.store.Get(ctx, IndexBlobPath)
	if err != nil {
		if !storage.IsNotExist(err) {
			c.logger.Warn("could not read persisted index", "error", err)
		}
		return nil
	}
	var ix Index
	if err := json.Unmarshal(blob, &ix); err != nil {
		c.logger.Warn("persisted index is corrupt, will rebuild", "error", err)
		return nil
	}
	if ix.Tags == nil {
		ix.Tags = map[string]int{}
	}
	return &ix
}

func (c *Cache) isStale(ctx context.Context) (bool, error) {
	ok, err := c.store.Exists(ctx, staleMarkerPath)
	if err != nil {
		return false, err
	}
	return ok, nil
}

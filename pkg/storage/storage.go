// Package storage provides a uniform byte/text contract over the two
// substrates content can live on: a local directory tree and an
// S3-compatible object store. Callers address everything with
// slash-separated paths relative to a content root; no backend path syntax
// leaks upward.
package storage

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Entry describes a single object or directory returned by List.
type Entry struct {
	// Path is the slash-separated path relative to the content root.
	Path string
	// IsDir reports whether the entry is a directory (or, for object
	// stores, a common prefix).
	IsDir bool
	// Size is the object size in bytes. Zero for directories.
	Size int64
	// LastModified is the backend's modification timestamp when known.
	LastModified time.Time
}

// Name returns the final path element of the entry.
func (e Entry) Name() string {
	p := strings.TrimSuffix(e.Path, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Store is the adapter contract shared by all backends.
//
// Missing objects are reported through ErrNotExist (use IsNotExist), never
// as a generic failure. Backend faults (unreachable endpoint, bad
// credentials, permission problems) surface as *UnavailableError and are
// not retried at this layer.
type Store interface {
	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// GetText returns the object decoded as a string.
	GetText(ctx context.Context, path string) (string, error)

	// Put atomically replaces the object at path with data, creating
	// parents as needed. Readers never observe a partial write.
	Put(ctx context.Context, path string, data []byte) error

	// PutText writes text content to path.
	PutText(ctx context.Context, path string, text string) error

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the immediate children of prefix, sorted by path. A
	// missing prefix yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Delete removes a single object. Deleting an absent object is a no-op.
	Delete(ctx context.Context, path string) error

	// CreateDir creates a directory (and parents). A no-op where the
	// backend has no directory concept.
	CreateDir(ctx context.Context, path string) error

	// DeleteDir removes a directory and everything beneath it.
	DeleteDir(ctx context.Context, path string) error
}

// CleanPath normalizes a caller-supplied path: slash-separated, no leading
// or trailing slash, no empty segments. It returns ErrInvalidPath when the
// path tries to climb out of the root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, seg := range parts {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidPath
		}
		out = append(out, seg)
	}
	return strings.Join(out, "/"), nil
}

// sortEntries orders entries by path for deterministic listings. Backend
// iteration order is never exposed directly.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

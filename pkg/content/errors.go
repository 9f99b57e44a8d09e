package content

import (
	"errors"
	"fmt"
)

// Sentinel errors used for simple equality-style checks.
var (
	// ErrNotFound reports a missing entry or image. Routine, safe to map
	// to a 404.
	ErrNotFound = errors.New("not found")

	// ErrForbidden reports a disallowed file type or path. Security
	// relevant: callers should log these.
	ErrForbidden = errors.New("forbidden")

	// ErrRootMissing reports that the content root itself does not exist.
	// Distinct from "index not yet built": there is nothing to index.
	ErrRootMissing = errors.New("content root missing")
)

// SlugCollisionError reports two entries of the same kind resolving to one
// slug. A collision aborts the rebuild; silently picking a winner would
// hide content.
type SlugCollisionError struct {
	Kind  string // "gallery", "post" or "page"
	Slug  string
	PathA string
	PathB string
}

func (e *SlugCollisionError) Error() string {
	return fmt.Sprintf("%s slug %q claimed by both %s and %s", e.Kind, e.Slug, e.PathA, e.PathB)
}

// NewSlugCollisionError constructs a typed SlugCollisionError.
func NewSlugCollisionError(kind, slug, pathA, pathB string) error {
	return &SlugCollisionError{Kind: kind, Slug: slug, PathA: pathA, PathB: pathB}
}

// IsSlugCollision reports whether err is (or wraps) a SlugCollisionError.
func IsSlugCollision(err error) bool {
	if err == nil {
		return false
	}
	var sc *SlugCollisionError
	return errors.As(err, &sc)
}

// MalformedContentError describes an override file or front-matter block
// that failed to parse. It is never fatal to a scan: the entry falls back
// to derived defaults and the error becomes a Warning on the index.
type MalformedContentError struct {
	Path  string
	Cause error
}

func (e *MalformedContentError) Error() string {
	return fmt.Sprintf("malformed content at %s: %v", e.Path, e.Cause)
}

func (e *MalformedContentError) Unwrap() error { return e.Cause }

// Warning records a recovered per-entry problem discovered during a scan.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func warningf(path, format string, args ...any) Warning {
	return Warning{Path: path, Message: fmt.Sprintf(format, args...)}
}

// warnMalformed records a parse failure as a Warning via
// MalformedContentError so the message shape stays uniform.
func warnMalformed(path string, cause error) Warning {
	e := &MalformedContentError{Path: path, Cause: cause}
	return Warning{Path: path, Message: e.Error()}
}

// IsNotFound reports whether err indicates missing content.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden reports whether err indicates a disallowed type or path.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

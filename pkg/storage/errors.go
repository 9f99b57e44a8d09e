package storage

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors used for simple equality-style checks.
var (
	// ErrNotExist reports that no object lives at the requested path. It
	// aliases os.ErrNotExist so errors.Is works across the fs backend's
	// raw errors too.
	ErrNotExist = os.ErrNotExist

	// ErrInvalidPath reports a path that escapes the content root or is
	// otherwise malformed.
	ErrInvalidPath = errors.New("invalid storage path")
)

// UnavailableError wraps a failure of the backend itself: network trouble,
// bad credentials, missing bucket, permission errors. It is distinct from a
// missing object and is treated as non-retryable at the adapter boundary.
type UnavailableError struct {
	Backend    string // "fs" or "s3"
	Op         string // operation, e.g. "Get", "List"
	StatusCode int    // optional backend status
	Cause      error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status=%d: %v", e.Backend, e.Op, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the wrapped cause.
func (e *UnavailableError) Unwrap() error { return e.Cause }

// NewUnavailableError constructs an *UnavailableError for an operation
// against a backend.
func NewUnavailableError(backend, op string, status int, cause error) error {
	return &UnavailableError{Backend: backend, Op: op, StatusCode: status, Cause: cause}
}

// IsNotExist reports whether err indicates a missing object.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var ue *UnavailableError
	return errors.As(err, &ue)
}

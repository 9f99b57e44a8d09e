package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lumapress/luma/pkg/internal"
)

// MemStore is an in-memory implementation of Store intended for tests and
// lightweight tooling that doesn't need persistence.
//
// Concurrency: an internal sync.RWMutex guards the maps, so a MemStore is
// safe for concurrent use by multiple goroutines.
type MemStore struct {
	mu sync.RWMutex
	// objects maps clean paths to content.
	objects map[string][]byte
	// modified tracks per-object modification times.
	modified map[string]time.Time
	// dirs records explicitly created directories. Implicit parents of
	// stored objects are also treated as directories.
	dirs map[string]struct{}

	clock internal.Clock
}

var _ Store = (*MemStore)(nil)

// NewMemStore constructs a ready-to-use in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
		dirs:     make(map[string]struct{}),
		clock:    internal.RealClock{},
	}
}

// WithClock replaces the clock used for LastModified stamps and returns the
// store for chaining in test setup.
func (m *MemStore) WithClock(clock internal.Clock) *MemStore {
	m.clock = clock
	return m
}

func (m *MemStore) Get(ctx context.Context, path string) ([]byte, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[clean]
	if !ok {
		return nil, ErrNotExist
	}
	// Copy to prevent caller-visible mutation.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemStore) GetText(ctx context.Context, path string) (string, error) {
	data, err := m.Get(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MemStore) Put(ctx context.Context, path string, data []byte) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[clean] = cp
	m.modified[clean] = m.clock.Now()
	return nil
}

func (m *MemStore) PutText(ctx context.Context, path string, text string) error {
	return m.Put(ctx, path, []byte(text))
}

func (m *MemStore) Exists(ctx context.Context, path string) (bool, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return false, err
	}
	if clean == "" {
		// The in-memory root always exists.
		return true, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[clean]; ok {
		return true, nil
	}
	if _, ok := m.dirs[clean]; ok {
		return true, nil
	}
	// Implicit directory: some object lives beneath it.
	for p := range m.objects {
		if strings.HasPrefix(p, clean+"/") {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	clean, err := CleanPath(prefix)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	base := clean
	if base != "" {
		base += "/"
	}

	files := map[string]Entry{}
	childDirs := map[string]struct{}{}

	for p, data := range m.objects {
		if !strings.HasPrefix(p, base) {
			continue
		}
		rest := strings.TrimPrefix(p, base)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			childDirs[base+rest[:i]] = struct{}{}
			continue
		}
		files[p] = Entry{
			Path:         p,
			Size:         int64(len(data)),
			LastModified: m.modified[p],
		}
	}
	for d := range m.dirs {
		if !strings.HasPrefix(d, base) || d == clean {
			continue
		}
		rest := strings.TrimPrefix(d, base)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		childDirs[base+rest] = struct{}{}
	}

	entries := make([]Entry, 0, len(files)+len(childDirs))
	for _, e := range files {
		entries = append(entries, e)
	}
	for d := range childDirs {
		entries = append(entries, Entry{Path: d, IsDir: true})
	}
	sortEntries(entries)
	return entries, nil
}

func (m *MemStore) Delete(ctx context.Context, path string) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, clean)
	delete(m.modified, clean)
	return nil
}

func (m *MemStore) CreateDir(ctx context.Context, path string) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	if clean == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[clean] = struct{}{}
	return nil
}

func (m *MemStore) DeleteDir(ctx context.Context, path string) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	if clean == "" {
		return ErrInvalidPath
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dirs, clean)
	for p := range m.objects {
		if p == clean || strings.HasPrefix(p, clean+"/") {
			delete(m.objects, p)
			delete(m.modified, p)
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, clean+"/") {
			delete(m.dirs, d)
		}
	}
	return nil
}

// String identifies the backend in logs.
func (m *MemStore) String() string { return "memory" }

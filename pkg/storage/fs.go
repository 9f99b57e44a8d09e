package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FsStore implements Store using a local directory tree rooted at Root.
// Puts go through a write-then-rename so a concurrent reader sees either
// the old object or the new one, never a torn write.
type FsStore struct {
	// Root is the base directory containing all content.
	Root string
}

// NewFsStore returns an FsStore rooted at root. The directory is not
// required to exist yet; callers that need it can CreateDir("").
func NewFsStore(root string) *FsStore {
	return &FsStore{Root: root}
}

var _ Store = (*FsStore)(nil)

// abs maps a logical slash path onto the local filesystem.
func (f *FsStore) abs(p string) (string, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.Root, filepath.FromSlash(clean)), nil
}

func (f *FsStore) Get(ctx context.Context, path string) ([]byte, error) {
	ap, err := f.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ap)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, NewUnavailableError("fs", "Get", 0, err)
	}
	return data, nil
}

func (f *FsStore) GetText(ctx context.Context, path string) (string, error) {
	data, err := f.Get(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FsStore) Put(ctx context.Context, path string, data []byte) error {
	ap, err := f.abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(ap)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewUnavailableError("fs", "Put", 0, err)
	}

	// Write to a temp file in the same directory, then rename over the
	// target. Rename within one filesystem is atomic, which is what makes
	// whole-blob replacement safe without locks.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(ap)+".tmp*")
	if err != nil {
		return NewUnavailableError("fs", "Put", 0, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return NewUnavailableError("fs", "Put", 0, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return NewUnavailableError("fs", "Put", 0, err)
	}
	if err := os.Rename(tmpName, ap); err != nil {
		_ = os.Remove(tmpName)
		return NewUnavailableError("fs", "Put", 0, err)
	}
	return nil
}

func (f *FsStore) PutText(ctx context.Context, path string, text string) error {
	return f.Put(ctx, path, []byte(text))
}

func (f *FsStore) Exists(ctx context.Context, path string) (bool, error) {
	ap, err := f.abs(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(ap); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewUnavailableError("fs", "Exists", 0, err)
	}
	return true, nil
}

func (f *FsStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	ap, err := f.abs(prefix)
	if err != nil {
		return nil, err
	}
	clean, _ := CleanPath(prefix)

	dirents, err := os.ReadDir(ap)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, NewUnavailableError("fs", "List", 0, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		rel := de.Name()
		if clean != "" {
			rel = clean + "/" + de.Name()
		}
		e := Entry{Path: rel, IsDir: de.IsDir()}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			e.LastModified = info.ModTime()
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func (f *FsStore) Delete(ctx context.Context, path string) error {
	ap, err := f.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(ap); err != nil && !os.IsNotExist(err) {
		return NewUnavailableError("fs", "Delete", 0, err)
	}
	return nil
}

func (f *FsStore) CreateDir(ctx context.Context, path string) error {
	ap, err := f.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ap, 0o755); err != nil {
		return NewUnavailableError("fs", "CreateDir", 0, err)
	}
	return nil
}

func (f *FsStore) DeleteDir(ctx context.Context, path string) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	if clean == "" {
		// Refuse to remove the content root itself.
		return fmt.Errorf("%w: refusing to delete content root", ErrInvalidPath)
	}
	ap := filepath.Join(f.Root, filepath.FromSlash(clean))
	if err := os.RemoveAll(ap); err != nil {
		return NewUnavailableError("fs", "DeleteDir", 0, err)
	}
	return nil
}

// String identifies the backend in logs.
func (f *FsStore) String() string {
	return "fs:" + strings.TrimSuffix(f.Root, "/")
}

// Package fsops is the file-backed store that runs every operation through
// the recovery pipeline. Failures are tagged with their platform code at the
// point of origin so classification does not depend on message text.
package fsops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/blushlabs/resilience/internal/resilience/classify"
	"github.com/blushlabs/resilience/internal/resilience/recovery"
)

// Store reads and writes files under a root directory with automatic
// failure recovery.
type Store struct {
	root    string
	handler *recovery.Handler
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, h *recovery.Handler) *Store {
	return &Store{root: dir, handler: h}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, name)
}

// Read returns the contents of the named file.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	value, err := s.handler.Wrap(ctx, func(ctx context.Context, path string) (any, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, classify.TagOSError("read", path, err)
		}
		return data, nil
	}, recovery.OpRead, s.path(name), recovery.WrapOptions{})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}

// Write stores data under the named file. A missing parent directory is
// created by the recovery pipeline and the write replayed.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.handler.Wrap(ctx, func(ctx context.Context, path string) (any, error) {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, classify.TagOSError("write", path, err)
		}
		return nil, nil
	}, recovery.OpWrite, s.path(name), recovery.WrapOptions{})
	return err
}

// Delete removes the named file.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.handler.Wrap(ctx, func(ctx context.Context, path string) (any, error) {
		if err := os.Remove(path); err != nil {
			return nil, classify.TagOSError("delete", path, err)
		}
		return nil, nil
	}, recovery.OpDelete, s.path(name), recovery.WrapOptions{})
	return err
}

// List returns the names of files under the given sub-directory.
func (s *Store) List(ctx context.Context, dir string) ([]string, error) {
	value, err := s.handler.Wrap(ctx, func(ctx context.Context, path string) (any, error) {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, classify.TagOSError("list", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		return names, nil
	}, recovery.OpList, s.path(dir), recovery.WrapOptions{})
	if err != nil {
		return nil, err
	}
	return value.([]string), nil
}

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/starford/empchart/internal/apperr"
)

// Bundle is the read-only package of assets shipped with the application.
type Bundle struct {
	fsys fs.FS
}

// NewBundle wraps fsys as a read-only asset bundle.
func NewBundle(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// DirBundle returns a Bundle over a directory on disk.
func DirBundle(dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: stat bundle dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: bundle dir is not a directory: %s", dir)
	}
	return NewBundle(os.DirFS(dir)), nil
}

// Read returns the raw bytes of a bundled asset.
func (b *Bundle) Read(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("storage: invalid asset name: %s", name)
	}
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: asset %s: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: asset %s: %w", name, err)
	}
	return data, nil
}

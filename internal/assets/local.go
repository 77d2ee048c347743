package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStore struct {
	dir string
}

// NewLocalStore stores images in a flat directory. Keys must be bare file
// names; the directory is created on first save.
func NewLocalStore(dir string) Store {
	return &localStore{dir: dir}
}

func (s *localStore) Exists(ctx context.Context, key string) bool {
	_ = ctx
	info, err := os.Stat(filepath.Join(s.dir, key))
	return err == nil && !info.IsDir()
}

func (s *localStore) Save(ctx context.Context, key string, r io.Reader) error {
	_ = ctx
	if strings.Contains(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid image key: %s", key)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, key)

	// tmp → rename so a failed download never leaves a half-written file
	// that a later run would treat as the authoritative copy.
	tmp, err := os.CreateTemp(s.dir, ".notedown-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

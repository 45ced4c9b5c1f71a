// Package objectstore holds the destinations for exported résumé files.
package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore writes objects as files under a directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Put returns the path of the written file.
func (d *DirStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	p := filepath.Join(d.dir, filepath.Base(key))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

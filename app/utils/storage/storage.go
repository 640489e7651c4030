// Package storage abstracts "store a blob, get a public URL". The hosted
// bucket the product images really live in is an external collaborator;
// the local-disk implementation serves the same contract under /uploads/.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(ctx context.Context, originalName, contentType string, data []byte) (publicURL string, err error)
}

type LocalDiskStore struct {
	Dir     string
	BaseURL string // e.g. http://localhost:5000
}

func NewLocalDiskStore(dir, baseURL string) (*LocalDiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalDiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalDiskStore) Put(ctx context.Context, originalName, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload %s: %w", path, err)
	}

	return s.BaseURL + "/uploads/" + name, nil
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PhotoStore persists uploaded facility photos.
type PhotoStore interface {
	// Save writes the photo content and returns its storage path.
	Save(filename string, content io.Reader) (string, error)

	// Remove deletes a stored photo.
	Remove(path string) error
}

// LocalPhotoStore writes photos under a root directory on local disk.
type LocalPhotoStore struct {
	root string
}

// NewLocalPhotoStore creates the store, ensuring the root directory exists.
func NewLocalPhotoStore(root string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalPhotoStore{root: root}, nil
}

// Save writes the photo with a random name, keeping the original extension.
func (s *LocalPhotoStore) Save(filename string, content io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored photo by its saved name.
func (s *LocalPhotoStore) Remove(path string) error {
	return os.Remove(filepath.Join(s.root, filepath.Base(path)))
}

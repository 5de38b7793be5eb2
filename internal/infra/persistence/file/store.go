// Package file persists the animal document as a JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"menagerie/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

// DefaultPath is the backing file used when none is configured.
const DefaultPath = "data/animals.json"

// Store reads and rewrites a single JSON document.
type Store struct {
	mu   sync.Mutex
	path string
	perm fs.FileMode
}

// NewStore returns a Store for path. The file is not touched until Load or Save.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, perm: 0o644}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Driver reports domain.StorageFile.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageFile }

// Load reads and decodes the document. A missing file wraps domain.ErrNoDocument.
func (s *Store) Load(_ context.Context) ([]domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, domain.ErrNoDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	animals, err := domain.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return animals, nil
}

// Save overwrites the file with the full sequence. The new content is written
// to a temp file in the same directory and renamed into place.
func (s *Store) Save(_ context.Context, animals []domain.Animal) error {
	data, err := domain.EncodeDocument(animals)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".animals-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), s.perm); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is opened per call.
func (s *Store) Close() error { return nil }

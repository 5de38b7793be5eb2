// Package blobdoc persists the animal document as one object in a blob store
// (filesystem, S3 or memory).
package blobdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"menagerie/internal/blob"
	"menagerie/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

const (
	// DefaultKey is the object key used when none is configured.
	DefaultKey = "animals.json"
	// MetaRecords is the metadata entry carrying the record count.
	MetaRecords = "records"
)

// Store reads and replaces a single blob.
type Store struct {
	blobs blob.Store
	key   string
}

// NewStore wraps blobs; an empty key selects DefaultKey.
func NewStore(blobs blob.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{blobs: blobs, key: key}
}

// Key returns the object key.
func (s *Store) Key() string { return s.key }

// Driver reports domain.StorageBlob.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageBlob }

// Load fetches and decodes the object. A missing key wraps domain.ErrNoDocument.
func (s *Store) Load(ctx context.Context) ([]domain.Animal, error) {
	_, rc, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", s.blobs.Driver(), s.key, domain.ErrNoDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return domain.DecodeDocument(data)
}

// Save replaces the object with the encoded document.
func (s *Store) Save(ctx context.Context, animals []domain.Animal) error {
	data, err := domain.EncodeDocument(animals)
	if err != nil {
		return err
	}
	_, err = s.blobs.Put(ctx, s.key, bytes.NewReader(data), blob.PutOptions{
		ContentType: domain.DocumentContentType,
		Metadata:    map[string]string{MetaRecords: strconv.Itoa(len(animals))},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.key, err)
	}
	return nil
}

// Close is a no-op; blob stores hold no handles.
func (s *Store) Close() error { return nil }

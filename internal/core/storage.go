package core

import (
	"context"
	"fmt"

	"menagerie/internal/blob"
	"menagerie/internal/infra/persistence/blobdoc"
	"menagerie/internal/infra/persistence/file"
	"menagerie/internal/infra/persistence/memory"
	"menagerie/internal/infra/persistence/postgres"
	"menagerie/internal/infra/persistence/sqlite"
	"menagerie/pkg/domain"
)

// StorageOptions selects and configures a persistence backend.
type StorageOptions struct {
	Driver      domain.StorageDriver
	Path        string // file driver
	SQLitePath  string
	PostgresDSN string
	BlobKey     string
	Blob        blob.Options
}

// OpenBackend constructs the backend named by opts.Driver. An empty driver
// selects the file backend.
func OpenBackend(ctx context.Context, opts StorageOptions) (domain.Backend, error) {
	driver := opts.Driver
	if driver == "" {
		driver = domain.StorageFile
	}
	switch driver {
	case domain.StorageFile:
		return file.NewStore(opts.Path), nil
	case domain.StorageMemory:
		return memory.NewStore(), nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StorageBlob:
		blobs, err := blob.Open(ctx, opts.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return blobdoc.NewStore(blobs, opts.BlobKey), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

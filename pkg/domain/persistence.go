package domain

import "context"

// StorageDriver identifies a concrete Backend implementation.
type StorageDriver string

// Supported storage drivers.
const (
	StorageFile     StorageDriver = "file"     // JSON document on local disk (default)
	StorageMemory   StorageDriver = "memory"   // in-process only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // document object in a blob store (fs / s3)
)

// Backend persists the whole record sequence as one document. Load returns
// ErrNoDocument when nothing has been stored yet. Save replaces the stored
// document wholesale.
type Backend interface {
	Load(ctx context.Context) ([]Animal, error)
	Save(ctx context.Context, animals []Animal) error
	Driver() StorageDriver
	Close() error
}

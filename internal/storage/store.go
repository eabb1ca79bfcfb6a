package storage

import (
	"DocVault/config"
	"context"
	"errors"
	"io"
	"log"
)

// ErrNotFound is returned when a storage path has no blob behind it.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists raw file bytes outside the catalog, addressed by a
// storage path the store itself chooses at save time.
type BlobStore interface {
	// Save sanitizes originalName, picks a collision-resistant storage
	// path and writes r there. It returns the sanitized display name and
	// the storage path.
	Save(ctx context.Context, r io.Reader, originalName string) (displayName, storagePath string, err error)

	// Open streams the blob at storagePath, also reporting its size.
	Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, error)

	// Stat reports the stored size of the blob at storagePath.
	Stat(ctx context.Context, storagePath string) (int64, error)

	// Remove deletes the blob at storagePath, ErrNotFound when absent.
	Remove(ctx context.Context, storagePath string) error
}

// Default is the process-wide blob store, chosen at startup.
var Default BlobStore

// InitStorage selects the configured blob backend.
func InitStorage() {
	switch config.AppConfig.StorageType {
	case "minio":
		InitMinio()
	default:
		store, err := NewLocalStore(config.AppConfig.StorageRoot)
		if err != nil {
			log.Fatal("init local storage fail: ", err)
		}
		Default = store
		log.Println("init local storage success, root:", config.AppConfig.StorageRoot)
	}
}

package storage

import (
	"DocVault/utils"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps blobs as plain files under a root directory. Storage
// names carry a microsecond-resolution timestamp prefix so two uploads of
// the same filename never collide in practice.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory when missing.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

// storageName builds the unique on-disk name for a sanitized display name.
func storageName(displayName string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s%06d_%s", now.Format("20060102150405"), now.Nanosecond()/1000, displayName)
}

// Save writes the blob and returns the sanitized display name plus the
// absolute path it was stored at.
func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalName string) (string, string, error) {
	displayName := utils.SanitizeFilename(originalName)
	if displayName == "" {
		displayName = "file"
	}

	dest := filepath.Join(s.root, storageName(displayName, time.Now()))

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest)
		return "", "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", "", err
	}
	return displayName, dest, nil
}

// Open streams a stored blob. Paths outside the root are rejected as absent.
func (s *LocalStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, error) {
	if !s.contains(storagePath) {
		return nil, 0, ErrNotFound
	}
	f, err := os.Open(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Stat reports the stored blob size.
func (s *LocalStore) Stat(ctx context.Context, storagePath string) (int64, error) {
	if !s.contains(storagePath) {
		return 0, ErrNotFound
	}
	info, err := os.Stat(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes a stored blob.
func (s *LocalStore) Remove(ctx context.Context, storagePath string) error {
	if !s.contains(storagePath) {
		return ErrNotFound
	}
	if err := os.Remove(storagePath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStore) contains(storagePath string) bool {
	clean := filepath.Clean(storagePath)
	return strings.HasPrefix(clean, s.root+string(filepath.Separator))
}

package service

import (
	"DocVault/config"
	"DocVault/internal/repo"
	"DocVault/internal/storage"
	"DocVault/internal/task"
	"DocVault/model"
	"DocVault/utils"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UploadDocument stores the blob first, measures its size from storage and
// then creates the catalog row. A row is never created without its blob; a
// failed insert leaves an orphan blob behind, which is handed to the cleanup
// queue and does not block the error path.
func UploadDocument(ctx context.Context, userID uint64, originalName string, r io.Reader) (*model.Document, error) {
	if !config.ExtensionAllowed(originalName) {
		return nil, ErrUnsupportedType
	}

	displayName, storagePath, err := storage.Default.Save(ctx, r, originalName)
	if err != nil {
		return nil, err
	}

	size, err := storage.Default.Stat(ctx, storagePath)
	if err != nil {
		task.EnqueueOrphanBlob(ctx, storagePath)
		return nil, err
	}

	doc := &model.Document{
		UserID:    userID,
		Filename:  displayName,
		Filepath:  storagePath,
		Filesize:  size,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Db.Create(doc).Error; err != nil {
		log.Printf("catalog insert failed, orphan blob at %s: %v", storagePath, err)
		task.EnqueueOrphanBlob(ctx, storagePath)
		return nil, err
	}

	_ = utils.InvalidateDocListCache(ctx, userID)
	return doc, nil
}

// ListDocuments returns the caller's documents, optionally filtered by a
// case-insensitive filename substring and ordered by the sort key. Unknown
// sort keys fall back to newest-first. Listings are served from the Redis
// cache when one is configured.
func ListDocuments(ctx context.Context, userID uint64, search, sort string) ([]model.Document, error) {
	search = strings.TrimSpace(search)
	sort = strings.TrimSpace(sort)

	if docs, ok := utils.GetDocListFromCache(ctx, userID, search, sort); ok {
		return docs, nil
	}

	query := repo.Db.Model(&model.Document{}).Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("LOWER(filename) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	switch sort {
	case "oldest":
		query = query.Order("created_at ASC")
	case "size_asc":
		query = query.Order("filesize ASC")
	case "size_desc":
		query = query.Order("filesize DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var docs []model.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}

	_ = utils.SetDocListToCache(ctx, userID, search, sort, docs, config.AppConfig.ListCacheTTL)
	return docs, nil
}

// GetOwnedDocument is the single visible-or-not predicate: a missing id and
// an id owned by someone else both come back as ErrDocumentNotVisible.
func GetOwnedDocument(userID, docID uint64) (*model.Document, error) {
	var doc model.Document
	err := repo.Db.Where("id = ? AND user_id = ?", docID, userID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotVisible
		}
		return nil, err
	}
	return &doc, nil
}

// DownloadDocument opens the blob behind a visible document. A row whose
// blob has gone missing surfaces ErrBlobMissing.
func DownloadDocument(ctx context.Context, userID, docID uint64) (*model.Document, io.ReadCloser, int64, error) {
	doc, err := GetOwnedDocument(userID, docID)
	if err != nil {
		return nil, nil, 0, err
	}
	rc, size, err := storage.Default.Open(ctx, doc.Filepath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, 0, ErrBlobMissing
		}
		return nil, nil, 0, err
	}
	return doc, rc, size, nil
}

// DeleteDocument removes the blob then the catalog row. An already missing
// blob is not an error; a blob the store cannot remove right now is handed
// to the cleanup queue so the row delete still goes through.
func DeleteDocument(ctx context.Context, userID, docID uint64) error {
	doc, err := GetOwnedDocument(userID, docID)
	if err != nil {
		return err
	}

	if err := storage.Default.Remove(ctx, doc.Filepath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("blob remove failed for %s, scheduling cleanup: %v", doc.Filepath, err)
		task.EnqueueOrphanBlob(ctx, doc.Filepath)
	}

	if err := repo.Db.Where("id = ? AND user_id = ?", docID, userID).
		Delete(&model.Document{}).Error; err != nil {
		return err
	}

	_ = utils.InvalidateDocListCache(ctx, userID)
	return nil
}

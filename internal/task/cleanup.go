package task

import (
	"DocVault/internal/mq"
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// CleanupMessage names a blob that should no longer exist: either the
// catalog insert failed after the blob was written, or a delete could not
// remove the blob right away.
type CleanupMessage struct {
	MessageID   string `json:"message_id"`
	StoragePath string `json:"storage_path"`
	Attempt     int    `json:"attempt"`
}

// EnqueueOrphanBlob publishes a cleanup task for a blob. Publishing is best
// effort: the vault stays correct without it (the catalog is the source of
// truth), so a missing or unreachable broker only costs disk space.
func EnqueueOrphanBlob(ctx context.Context, storagePath string) {
	msg := CleanupMessage{
		MessageID:   uuid.NewString(),
		StoragePath: storagePath,
		Attempt:     0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("cleanup enqueue: marshal failed: %v", err)
		return
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		log.Printf("cleanup enqueue: broker unavailable, orphan blob at %s: %v", storagePath, err)
		return
	}
	if err := publisher.PublishTask(ctx, body); err != nil {
		log.Printf("cleanup enqueue: publish failed, orphan blob at %s: %v", storagePath, err)
	}
}

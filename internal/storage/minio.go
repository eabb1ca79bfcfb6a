package storage

import (
	"DocVault/config"
	"DocVault/utils"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs as objects in a single bucket; the storage path is
// the object name.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore builds a BlobStore from a MinIO client.
func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

// Save uploads the blob under a timestamp-prefixed object name.
func (s *MinioStore) Save(ctx context.Context, r io.Reader, originalName string) (string, string, error) {
	displayName := utils.SanitizeFilename(originalName)
	if displayName == "" {
		displayName = "file"
	}
	object := storageName(displayName, time.Now())
	if _, err := s.client.PutObject(ctx, s.bucket, object, r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return "", "", err
	}
	return displayName, object, nil
}

// Open fetches an object and its size.
func (s *MinioStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storagePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, mapMinioErr(err)
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, mapMinioErr(err)
	}
	return obj, stat.Size, nil
}

// Stat reports the stored object size.
func (s *MinioStore) Stat(ctx context.Context, storagePath string) (int64, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, storagePath, minio.StatObjectOptions{})
	if err != nil {
		return 0, mapMinioErr(err)
	}
	return stat.Size, nil
}

// Remove deletes an object. MinIO treats removing a missing object as a
// success, which matches the idempotent-tolerant delete contract.
func (s *MinioStore) Remove(ctx context.Context, storagePath string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, storagePath, minio.StatObjectOptions{}); err != nil {
		return mapMinioErr(err)
	}
	return s.client.RemoveObject(ctx, s.bucket, storagePath, minio.RemoveObjectOptions{})
}

func mapMinioErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return ErrNotFound
	}
	return err
}

// InitMinio initializes the MinIO client and bucket and installs it as the
// default blob store.
func InitMinio() {
	client, err := minio.New(fmt.Sprintf("%s:%s", config.AppConfig.MinioHost, config.AppConfig.MinioPort), &minio.Options{
		Creds:  credentials.NewStaticV4(config.AppConfig.MinioUsername, config.AppConfig.MinioPassword, ""),
		Secure: false,
	})
	if err != nil {
		log.Fatalln("minio error:", err)
	}
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, config.AppConfig.BucketName)
	if err != nil {
		log.Fatalln("check bucket fail:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.AppConfig.BucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatalln("create bucket fail:", err)
		}
	}
	Default = NewMinioStore(client, config.AppConfig.BucketName)
	log.Println("init minio storage success, bucket:", config.AppConfig.BucketName)
}

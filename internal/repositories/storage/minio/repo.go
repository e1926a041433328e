package miniorepo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"docvault/internal/models"
	"docvault/internal/repositories/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pkg = "minioRepo/"

var _ storage.FileRepository = (*repository)(nil)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type repository struct {
	client *minio.Client
	bucket string
}

// NewRepository connects to an S3-compatible backend and ensures the bucket
// exists.
func NewRepository(ctx context.Context, cfg Config) (*repository, error) {
	op := pkg + "NewRepository"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &repository{client: client, bucket: cfg.Bucket}, nil
}

func (r *repository) SaveFile(ctx context.Context, path string, mime string, size int64, reader io.Reader) error {
	op := pkg + "SaveFile"

	_, err := r.client.PutObject(ctx, r.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: mime,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) LoadFile(ctx context.Context, path string) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	obj, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()

		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return obj, nil
}

func (r *repository) DeleteFile(ctx context.Context, path string) error {
	op := pkg + "DeleteFile"

	if err := r.client.RemoveObject(ctx, r.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

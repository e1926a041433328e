package storage

import (
	"context"
	"io"
)

type FileRepository interface {
	SaveFile(ctx context.Context, path string, mime string, size int64, reader io.Reader) error
	LoadFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

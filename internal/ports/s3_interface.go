package ports

import (
	"context"
	"time"
)

// S3Storage : файловое хранилище ответов
type S3Storage interface {
	ResolvePath(requestID, filename string) string
	Exists(ctx context.Context, key string) (bool, error)
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

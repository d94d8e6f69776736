package ports

import (
	"context"

	"foil-records-server/internal/model"
)

// CacheRepository : Redis слой (cache-aside для запросов FOIL)
type CacheRepository interface {
	SetRequest(ctx context.Context, request *model.Request) error
	GetRequest(ctx context.Context, requestID string) (*model.Request, error)
	DeleteRequest(ctx context.Context, requestID string) error
}

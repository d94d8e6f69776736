package ports

import (
	"context"

	"foil-records-server/internal/model"
)

// SearchIndex : вторичный поисковый индекс запросов. Обновляется
// best-effort после коммита основной транзакции; полная пересборка
// (ReindexAll) чинит расхождения.
type SearchIndex interface {
	Upsert(ctx context.Context, requestID string) error
	Delete(ctx context.Context, requestID string) error
	Query(ctx context.Context, filters model.SearchOptions) (*model.SearchResults, error)
	ReindexAll(ctx context.Context) error
}

package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"foil-records-server/internal/model"
)

// RequestRepository : SQL слой запросов FOIL
type RequestRepository interface {
	GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.Request, error)
	ExtendDueDate(ctx context.Context, exec sqlx.ExtContext, requestID string, days int) (*model.Request, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, requestID, status string) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// EventRepository : append-only журнал аудита
type EventRepository interface {
	Record(ctx context.Context, exec sqlx.ExtContext, event *model.Event) (*model.Event, error)
	ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.Event, error)
}

// RequestService : чтение запросов FOIL с учётом роли вызывающего
type RequestService interface {
	GetRequest(ctx context.Context, requestID string) (*model.Request, error)
	ListResponses(ctx context.Context, requestID string, actor model.Actor) ([]model.Response, error)
	ListEvents(ctx context.Context, requestID string, actor model.Actor) ([]model.Event, error)
}

// UserRepository : пользователи и адреса агентства
type UserRepository interface {
	FindByGUID(ctx context.Context, exec sqlx.ExtContext, guid string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	GetAgencyEmails(ctx context.Context, exec sqlx.ExtContext, requestID string, adminsOnly bool) ([]string, error)
}

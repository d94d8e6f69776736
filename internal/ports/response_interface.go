package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"foil-records-server/internal/model"
	"foil-records-server/internal/model/requestresponse"
)

// ResponseRepository : SQL слой ответов и их токенов доступа
type ResponseRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, responseUUID string) (*model.Response, error)
	Update(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error
	MarkDeleted(ctx context.Context, exec sqlx.ExtContext, responseUUID string) error
	ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string, includePrivate bool) ([]model.Response, error)

	CreateToken(ctx context.Context, exec sqlx.ExtContext, token *model.ResponseToken) error
	GetToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ResponseToken, error)
	MarkTokenUsed(ctx context.Context, exec sqlx.ExtContext, token string) error
	DeleteToken(ctx context.Context, exec sqlx.ExtContext, token string) error

	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// UserRequestRepository : SQL слой связей пользователь-запрос
type UserRequestRepository interface {
	Get(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) (*model.UserRequest, error)
	Create(ctx context.Context, exec sqlx.ExtContext, userRequest *model.UserRequest) error
	UpdatePermissions(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string, mask uint64) error
	Delete(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) error
	ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UserRequest, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// ResponseService : операции над ответами
type ResponseService interface {
	AddNote(ctx context.Context, requestID, content, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error)
	AddFiles(ctx context.Context, requestID string, files []FileUpload, emailContent string, actor model.Actor) ([]model.Response, []model.FieldError, error)
	AddLink(ctx context.Context, requestID, title, url, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error)
	AddInstruction(ctx context.Context, requestID, content, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error)
	AddExtension(ctx context.Context, requestID string, days int, reason string, actor model.Actor) (*model.Response, []model.FieldError, error)
	EditResponse(ctx context.Context, responseUUID string, changes map[string]string, actor model.Actor) (*requestresponse.EditResult, error)
	DeleteResponse(ctx context.Context, responseUUID, confirmation string, actor model.Actor) (*requestresponse.EditResult, error)
	IssueToken(ctx context.Context, responseUUID string) (*model.ResponseToken, error)
	GetResponseByToken(ctx context.Context, token string) (*model.Response, string, error)
}

// FileUpload : метаданные одного загружаемого файла
type FileUpload struct {
	FileName  string
	Title     string
	Privacy   string
	MimeType  string
	SizeBytes int64
	Sha256    string
}

// UserRequestService : управление правами пользователей на запросе
type UserRequestService interface {
	AddUserRequest(ctx context.Context, requestID, userGUID string, capabilities []string, actor model.Actor) (*model.UserRequest, error)
	EditUserRequest(ctx context.Context, requestID, userGUID string, capabilities []string, actor model.Actor) (*model.UserRequest, error)
	RemoveUserRequest(ctx context.Context, requestID, userGUID string, actor model.Actor) error
}

// SearchService : поиск, экспорт и синхронизация индекса
type SearchService interface {
	Search(ctx context.Context, opts model.SearchOptions) (*model.SearchResults, error)
	ExportCSV(ctx context.Context, opts model.SearchOptions) (string, []byte, error)
	SyncRequest(ctx context.Context, requestID string) error
	DeleteFromIndex(ctx context.Context, requestID string) error
	ReindexAll(ctx context.Context) error
}

package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"foil-records-server/internal/model"
)

// fakeTx : пустой sqlx.ExtContext для транзакций в моках
type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return &sql.Row{}
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

func beginTXReturns(m *mock.Mock) {
	m.On("BeginTX", mock.Anything).Return(
		sqlx.ExtContext(&fakeTx{}),
		func() error { return nil },
		func() error { return nil },
		nil,
	)
}

type MockUserRequestRepository struct{ mock.Mock }

func (m *MockUserRequestRepository) Get(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) (*model.UserRequest, error) {
	args := m.Called(ctx, exec, requestID, userGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserRequest), args.Error(1)
}

func (m *MockUserRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, userRequest *model.UserRequest) error {
	return m.Called(ctx, exec, userRequest).Error(0)
}

func (m *MockUserRequestRepository) UpdatePermissions(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string, mask uint64) error {
	return m.Called(ctx, exec, requestID, userGUID, mask).Error(0)
}

func (m *MockUserRequestRepository) Delete(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) error {
	return m.Called(ctx, exec, requestID, userGUID).Error(0)
}

func (m *MockUserRequestRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UserRequest, error) {
	args := m.Called(ctx, exec, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserRequest), args.Error(1)
}

func (m *MockUserRequestRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByGUID(ctx context.Context, exec sqlx.ExtContext, guid string) (*model.User, error) {
	args := m.Called(ctx, exec, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetAgencyEmails(ctx context.Context, exec sqlx.ExtContext, requestID string, adminsOnly bool) ([]string, error) {
	args := m.Called(ctx, exec, requestID, adminsOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
	Recorded []*model.Event
}

func (m *MockEventRepository) Record(ctx context.Context, exec sqlx.ExtContext, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, exec, event)
	if args.Error(1) == nil {
		m.Recorded = append(m.Recorded, event)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.Event, error) {
	args := m.Called(ctx, exec, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

type MockTaskPublisher struct {
	mock.Mock
	Notifications []*model.NotificationTask
	IndexTasks    []*model.IndexTask
}

func (m *MockTaskPublisher) PublishNotification(ctx context.Context, task *model.NotificationTask) error {
	m.Notifications = append(m.Notifications, task)
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskPublisher) PublishIndexUpdate(ctx context.Context, task *model.IndexTask) error {
	m.IndexTasks = append(m.IndexTasks, task)
	return m.Called(ctx, task).Error(0)
}

type MockResponseRepository struct{ mock.Mock }

func (m *MockResponseRepository) Create(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error {
	return m.Called(ctx, exec, response).Error(0)
}

func (m *MockResponseRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, responseUUID string) (*model.Response, error) {
	args := m.Called(ctx, exec, responseUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Response), args.Error(1)
}

func (m *MockResponseRepository) Update(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error {
	return m.Called(ctx, exec, response).Error(0)
}

func (m *MockResponseRepository) MarkDeleted(ctx context.Context, exec sqlx.ExtContext, responseUUID string) error {
	return m.Called(ctx, exec, responseUUID).Error(0)
}

func (m *MockResponseRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string, includePrivate bool) ([]model.Response, error) {
	args := m.Called(ctx, exec, requestID, includePrivate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Response), args.Error(1)
}

func (m *MockResponseRepository) CreateToken(ctx context.Context, exec sqlx.ExtContext, token *model.ResponseToken) error {
	return m.Called(ctx, exec, token).Error(0)
}

func (m *MockResponseRepository) GetToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ResponseToken, error) {
	args := m.Called(ctx, exec, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponseToken), args.Error(1)
}

func (m *MockResponseRepository) MarkTokenUsed(ctx context.Context, exec sqlx.ExtContext, token string) error {
	return m.Called(ctx, exec, token).Error(0)
}

func (m *MockResponseRepository) DeleteToken(ctx context.Context, exec sqlx.ExtContext, token string) error {
	return m.Called(ctx, exec, token).Error(0)
}

func (m *MockResponseRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.Request, error) {
	args := m.Called(ctx, exec, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) ExtendDueDate(ctx context.Context, exec sqlx.ExtContext, requestID string, days int) (*model.Request, error) {
	args := m.Called(ctx, exec, requestID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, requestID, status string) error {
	return m.Called(ctx, exec, requestID, status).Error(0)
}

func (m *MockRequestRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetRequest(ctx context.Context, request *model.Request) error {
	return m.Called(ctx, request).Error(0)
}

func (m *MockCacheRepository) GetRequest(ctx context.Context, requestID string) (*model.Request, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockCacheRepository) DeleteRequest(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) ResolvePath(requestID, filename string) string {
	return m.Called(requestID, filename).String(0)
}

func (m *MockS3Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockSearchIndex struct{ mock.Mock }

func (m *MockSearchIndex) Upsert(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

func (m *MockSearchIndex) Delete(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

func (m *MockSearchIndex) Query(ctx context.Context, filters model.SearchOptions) (*model.SearchResults, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResults), args.Error(1)
}

func (m *MockSearchIndex) ReindexAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

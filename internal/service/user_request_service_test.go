package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/service"
)

func newTestUserRequestService() (*service.UserRequestService, *MockUserRequestRepository, *MockUserRepository, *MockEventRepository, *MockTaskPublisher) {
	userRequestRepo := new(MockUserRequestRepository)
	userRepo := new(MockUserRepository)
	eventRepo := new(MockEventRepository)
	publisher := new(MockTaskPublisher)
	svc := service.NewUserRequestService(userRequestRepo, userRepo, eventRepo, publisher)
	return svc, userRequestRepo, userRepo, eventRepo, publisher
}

func adminActor() model.Actor {
	return model.Actor{
		UserGUID:      "admin-guid",
		AuthType:      model.AuthTypeAgency,
		IsAgencyAdmin: true,
	}
}

func mustMask(t *testing.T, capabilities ...permission.Capability) permission.Mask {
	t.Helper()
	mask, err := permission.Add(0, capabilities...)
	require.NoError(t, err)
	return mask
}

func TestAddUserRequest_Success(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, publisher := newTestUserRequestService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(nil, repository.ErrUserRequestNotFound)
	userRepo.On("FindByGUID", mock.Anything, mock.Anything, "user-guid").
		Return(&model.User{GUID: "user-guid", AuthType: model.AuthTypeAgency, Email: "worker@agency.gov", FirstName: "Jane", LastName: "Doe"}, nil)
	userRequestRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.UserRequest")).Return(nil)
	eventRepo.On("Record", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Event")).
		Return(&model.Event{}, nil)
	userRepo.On("GetAgencyEmails", mock.Anything, mock.Anything, "FOIL-2026-001", true).
		Return([]string{"admin@agency.gov"}, nil)
	publisher.On("PublishNotification", mock.Anything, mock.AnythingOfType("*model.NotificationTask")).Return(nil)

	userRequest, err := svc.AddUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note", "edit_response"}, adminActor())
	require.NoError(t, err)

	assert.Equal(t, "user-guid", userRequest.UserGUID)
	assert.Equal(t, model.RequestUserTypeAgency, userRequest.RequestUserType)
	assert.True(t, permission.Has(userRequest.Permissions, permission.AddNote))
	assert.True(t, permission.Has(userRequest.Permissions, permission.EditResponse))
	assert.False(t, permission.Has(userRequest.Permissions, permission.ManageUsers))

	require.Len(t, eventRepo.Recorded, 1)
	event := eventRepo.Recorded[0]
	assert.Equal(t, model.EventUserAdded, event.Type)
	assert.Equal(t, "admin-guid", event.UserGUID)
	assert.Nil(t, event.PreviousValue)
	assert.Equal(t, "user-guid", event.NewValue["user_guid"])

	// два письма: администраторам и самому пользователю
	assert.Len(t, publisher.Notifications, 2)

	userRequestRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestAddUserRequest_Duplicate(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, publisher := newTestUserRequestService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	beginTXReturns(&userRequestRepo.Mock)
	existing := &model.UserRequest{UserGUID: "user-guid", RequestID: "FOIL-2026-001"}
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(existing, nil)

	userRequest, err := svc.AddUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note"}, adminActor())
	assert.ErrorIs(t, err, repository.ErrDuplicateUserRequest)
	assert.Nil(t, userRequest)

	// дубликат не оставляет никаких следов
	userRequestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "FindByGUID", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddUserRequest_DuplicateCheckError(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, _ := newTestUserRequestService()
	ctx := context.Background()

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(nil, assert.AnError)

	// сбой проверки дубликата — не "записи нет": операция прерывается
	// с исходной ошибкой
	userRequest, err := svc.AddUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note"}, adminActor())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, repository.ErrDuplicateUserRequest)
	assert.Nil(t, userRequest)

	userRequestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "FindByGUID", mock.Anything, mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddUserRequest_UnknownCapability(t *testing.T) {
	svc, userRequestRepo, _, _, _ := newTestUserRequestService()
	ctx := context.Background()

	userRequest, err := svc.AddUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"delete_request"}, adminActor())
	assert.ErrorIs(t, err, permission.ErrUnknownCapability)
	assert.Nil(t, userRequest)

	userRequestRepo.AssertNotCalled(t, "BeginTX", mock.Anything)
}

func TestAddUserRequest_Forbidden(t *testing.T) {
	svc, userRequestRepo, _, eventRepo, _ := newTestUserRequestService()
	ctx := context.Background()

	actor := model.Actor{UserGUID: "worker-guid", AuthType: model.AuthTypeAgency}
	binding := &model.UserRequest{
		UserGUID:    "worker-guid",
		RequestID:   "FOIL-2026-001",
		Permissions: mustMask(t, permission.AddNote),
	}

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "worker-guid").
		Return(binding, nil)

	_, err := svc.AddUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note"}, actor)
	assert.ErrorIs(t, err, service.ErrForbidden)

	userRequestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditUserRequest_AddsAndRemoves(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, publisher := newTestUserRequestService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	previous := mustMask(t, permission.AddNote, permission.AddFile)
	binding := &model.UserRequest{
		UserGUID:    "user-guid",
		RequestID:   "FOIL-2026-001",
		Permissions: previous,
	}

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(binding, nil)
	expected := mustMask(t, permission.AddNote, permission.EditResponse)
	userRequestRepo.On("UpdatePermissions", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid", uint64(expected)).
		Return(nil)
	eventRepo.On("Record", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Event")).
		Return(&model.Event{}, nil)
	userRepo.On("GetAgencyEmails", mock.Anything, mock.Anything, "FOIL-2026-001", true).
		Return([]string{}, nil)
	userRepo.On("FindByGUID", mock.Anything, mock.Anything, "user-guid").
		Return(&model.User{GUID: "user-guid", Email: "worker@agency.gov"}, nil)
	publisher.On("PublishNotification", mock.Anything, mock.AnythingOfType("*model.NotificationTask")).Return(nil)

	userRequest, err := svc.EditUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note", "edit_response"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, expected, userRequest.Permissions)

	require.Len(t, eventRepo.Recorded, 1)
	event := eventRepo.Recorded[0]
	assert.Equal(t, model.EventUserPermChanged, event.Type)
	assert.Equal(t, uint64(previous), event.PreviousValue["permissions"])
	assert.Equal(t, uint64(expected), event.NewValue["permissions"])

	userRequestRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestEditUserRequest_NoChange(t *testing.T) {
	svc, userRequestRepo, _, eventRepo, publisher := newTestUserRequestService()
	ctx := context.Background()

	mask := mustMask(t, permission.AddNote, permission.AddLink)
	binding := &model.UserRequest{
		UserGUID:    "user-guid",
		RequestID:   "FOIL-2026-001",
		Permissions: mask,
	}

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(binding, nil)

	userRequest, err := svc.EditUserRequest(ctx, "FOIL-2026-001", "user-guid", []string{"add_note", "add_link"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, mask, userRequest.Permissions)

	// совпадающая маска не трогает ни БД, ни журнал, ни очередь
	userRequestRepo.AssertNotCalled(t, "UpdatePermissions", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

func TestEditUserRequest_NotFound(t *testing.T) {
	svc, userRequestRepo, _, _, _ := newTestUserRequestService()
	ctx := context.Background()

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "ghost-guid").
		Return(nil, repository.ErrUserRequestNotFound)

	_, err := svc.EditUserRequest(ctx, "FOIL-2026-001", "ghost-guid", []string{"add_note"}, adminActor())
	assert.ErrorIs(t, err, repository.ErrUserRequestNotFound)
}

func TestRemoveUserRequest_Success(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, publisher := newTestUserRequestService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mask := mustMask(t, permission.AddNote, permission.ManageUsers)
	binding := &model.UserRequest{
		UserGUID:    "user-guid",
		RequestID:   "FOIL-2026-001",
		Permissions: mask,
	}

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(binding, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Event")).
		Return(&model.Event{}, nil)
	userRequestRepo.On("Delete", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").Return(nil)
	userRepo.On("GetAgencyEmails", mock.Anything, mock.Anything, "FOIL-2026-001", true).
		Return([]string{"admin@agency.gov"}, nil)
	userRepo.On("FindByGUID", mock.Anything, mock.Anything, "user-guid").
		Return(&model.User{GUID: "user-guid", Email: "worker@agency.gov"}, nil)
	publisher.On("PublishNotification", mock.Anything, mock.AnythingOfType("*model.NotificationTask")).Return(nil)

	err := svc.RemoveUserRequest(ctx, "FOIL-2026-001", "user-guid", adminActor())
	require.NoError(t, err)

	require.Len(t, eventRepo.Recorded, 1)
	event := eventRepo.Recorded[0]
	assert.Equal(t, model.EventUserRemoved, event.Type)
	assert.Equal(t, uint64(mask), event.PreviousValue["permissions"])
	assert.Nil(t, event.NewValue)

	userRequestRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestRemoveUserRequest_PublishFailureDoesNotFail(t *testing.T) {
	svc, userRequestRepo, userRepo, eventRepo, publisher := newTestUserRequestService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	binding := &model.UserRequest{
		UserGUID:    "user-guid",
		RequestID:   "FOIL-2026-001",
		Permissions: mustMask(t, permission.AddNote),
	}

	beginTXReturns(&userRequestRepo.Mock)
	userRequestRepo.On("Get", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").
		Return(binding, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Event")).
		Return(&model.Event{}, nil)
	userRequestRepo.On("Delete", mock.Anything, mock.Anything, "FOIL-2026-001", "user-guid").Return(nil)
	userRepo.On("GetAgencyEmails", mock.Anything, mock.Anything, "FOIL-2026-001", true).
		Return([]string{"admin@agency.gov"}, nil)
	userRepo.On("FindByGUID", mock.Anything, mock.Anything, "user-guid").
		Return(&model.User{GUID: "user-guid", Email: "worker@agency.gov"}, nil)
	publisher.On("PublishNotification", mock.Anything, mock.AnythingOfType("*model.NotificationTask")).
		Return(assert.AnError)

	// вторая фаза best-effort: ошибка очереди не отменяет удаление
	err := svc.RemoveUserRequest(ctx, "FOIL-2026-001", "user-guid", adminActor())
	assert.NoError(t, err)
}

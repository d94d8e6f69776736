package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foil-records-server/internal/model"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/repository"
)

func TestUserRequestGet_Found(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewUserRequestRepository(database)

	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	mask, err := permission.Add(0, permission.AddNote, permission.ManageUsers)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{
		"user_guid", "auth_type", "request_id", "request_user_type", "permissions", "created_at", "updated_at",
	}).AddRow("user-guid", model.AuthTypeAgency, "FOIL-2026-001", model.RequestUserTypeAgency, uint64(mask), now, now)

	mock.ExpectQuery(`SELECT (.+) FROM user_requests`).
		WithArgs("FOIL-2026-001", "user-guid").
		WillReturnRows(rows)

	userRequest, err := repo.Get(context.Background(), database, "FOIL-2026-001", "user-guid")
	require.NoError(t, err)

	assert.Equal(t, "user-guid", userRequest.UserGUID)
	assert.True(t, permission.Has(userRequest.Permissions, permission.ManageUsers))
	assert.False(t, permission.Has(userRequest.Permissions, permission.DeleteResponse))
}

func TestUserRequestGet_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewUserRequestRepository(database)

	mock.ExpectQuery(`SELECT (.+) FROM user_requests`).
		WithArgs("FOIL-2026-001", "ghost-guid").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_guid", "auth_type", "request_id", "request_user_type", "permissions", "created_at", "updated_at",
		}))

	userRequest, err := repo.Get(context.Background(), database, "FOIL-2026-001", "ghost-guid")
	assert.ErrorIs(t, err, repository.ErrUserRequestNotFound)
	assert.Nil(t, userRequest)
}

func TestUserRequestCreate_Duplicate(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewUserRequestRepository(database)

	mock.ExpectExec(`INSERT INTO user_requests`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), database, &model.UserRequest{
		UserGUID:        "user-guid",
		AuthType:        model.AuthTypeAgency,
		RequestID:       "FOIL-2026-001",
		RequestUserType: model.RequestUserTypeAgency,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateUserRequest)
}

func TestUserRequestUpdatePermissions_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewUserRequestRepository(database)

	mock.ExpectExec(`UPDATE user_requests`).
		WithArgs("FOIL-2026-001", "ghost-guid", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePermissions(context.Background(), database, "FOIL-2026-001", "ghost-guid", 1)
	assert.ErrorIs(t, err, repository.ErrUserRequestNotFound)
}

func TestUserRequestDelete(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewUserRequestRepository(database)

	mock.ExpectExec(`DELETE FROM user_requests`).
		WithArgs("FOIL-2026-001", "user-guid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), database, "FOIL-2026-001", "user-guid")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

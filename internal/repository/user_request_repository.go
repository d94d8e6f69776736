package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

type UserRequestRepository struct {
	*config.Database
}

func NewUserRequestRepository(database *config.Database) *UserRequestRepository {
	return &UserRequestRepository{database}
}

// Get : возвращает связь пользователь-запрос, ErrUserRequestNotFound если её нет
func (r *UserRequestRepository) Get(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) (*model.UserRequest, error) {
	query := `
		SELECT user_guid, auth_type, request_id, request_user_type, permissions, created_at, updated_at
		FROM user_requests
		WHERE request_id = $1 AND user_guid = $2
	`

	var userRequest model.UserRequest
	err := sqlx.GetContext(ctx, exec, &userRequest, query, requestID, userGUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserRequestNotFound
	}
	if err != nil {
		return nil, util.LogError("[UserRequestRepo] не удалось получить запись", err)
	}

	return &userRequest, nil
}

// Create : создаёт связь; на пару (user, request) допускается одна запись,
// дубликат ловится по unique constraint
func (r *UserRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, userRequest *model.UserRequest) error {
	query := `
		INSERT INTO user_requests (user_guid, auth_type, request_id, request_user_type, permissions)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		userRequest.UserGUID,
		userRequest.AuthType,
		userRequest.RequestID,
		userRequest.RequestUserType,
		uint64(userRequest.Permissions))

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return ErrDuplicateUserRequest
	}
	if err != nil {
		return util.LogError("[UserRequestRepo] не удалось создать запись", err)
	}
	return nil
}

// UpdatePermissions : перезаписывает маску прав пользователя на запросе
func (r *UserRequestRepository) UpdatePermissions(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string, mask uint64) error {
	query := `
		UPDATE user_requests
		SET permissions = $3, updated_at = NOW()
		WHERE request_id = $1 AND user_guid = $2
	`
	result, err := exec.ExecContext(ctx, query, requestID, userGUID, mask)
	if err != nil {
		return util.LogError("[UserRequestRepo] не удалось обновить права", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrUserRequestNotFound
	}
	return nil
}

// Delete : физически удаляет связь; единственное в модели жёсткое удаление
func (r *UserRequestRepository) Delete(ctx context.Context, exec sqlx.ExtContext, requestID, userGUID string) error {
	result, err := exec.ExecContext(ctx, `
		DELETE FROM user_requests
		WHERE request_id = $1 AND user_guid = $2
	`, requestID, userGUID)
	if err != nil {
		return util.LogError("[UserRequestRepo] не удалось удалить запись", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrUserRequestNotFound
	}
	return nil
}

// ListByRequest : все связи пользователей с запросом
func (r *UserRequestRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.UserRequest, error) {
	query := `
		SELECT user_guid, auth_type, request_id, request_user_type, permissions, created_at, updated_at
		FROM user_requests
		WHERE request_id = $1
		ORDER BY created_at ASC, user_guid ASC
	`

	userRequests := []model.UserRequest{}
	err := sqlx.SelectContext(ctx, exec, &userRequests, query, requestID)
	if err != nil {
		return nil, util.LogError("[UserRequestRepo] не удалось получить список", err)
	}
	return userRequests, nil
}

func (r *UserRequestRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}

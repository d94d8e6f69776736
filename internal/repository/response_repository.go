package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

type ResponseRepository struct {
	*config.Database
}

func NewResponseRepository(database *config.Database) *ResponseRepository {
	return &ResponseRepository{database}
}

// Create : сохраняет новый ответ любого типа; незадействованные поля
// варианта остаются NULL
func (r *ResponseRepository) Create(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error {
	query := `
		INSERT INTO responses (uuid, request_id, type, privacy, title,
		                       file_name, mime_type, size_bytes, sha256, storage_path,
		                       content, url, extension_days, extension_reason, date_extended_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		response.UUID,
		response.RequestID,
		response.Type,
		response.Privacy,
		response.Title,
		response.FileName,
		response.MimeType,
		response.SizeBytes,
		response.Sha256,
		response.StoragePath,
		response.Content,
		response.URL,
		response.ExtensionDays,
		response.ExtensionReason,
		response.DateExtendedTo)

	if err != nil {
		return util.LogError("[ResponseRepo] не удалось сохранить ответ", err)
	}
	return nil
}

// GetByUUID : возвращает ответ; удалённые ответы видны только аудиту,
// поэтому здесь исключаются
func (r *ResponseRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, responseUUID string) (*model.Response, error) {
	query := `
		SELECT uuid, request_id, type, privacy, deleted, title,
		       file_name, mime_type, size_bytes, sha256, storage_path,
		       content, url, extension_days, extension_reason, date_extended_to,
		       created_at, updated_at
		FROM responses
		WHERE uuid = $1 AND deleted = FALSE
	`

	var response model.Response
	err := sqlx.GetContext(ctx, exec, &response, query, responseUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, util.LogError("[ResponseRepo] не удалось получить ответ", err)
	}

	return &response, nil
}

// Update : перезаписывает изменяемые поля ответа
func (r *ResponseRepository) Update(ctx context.Context, exec sqlx.ExtContext, response *model.Response) error {
	query := `
		UPDATE responses
		SET privacy = $2, title = $3, file_name = $4, mime_type = $5,
		    size_bytes = $6, sha256 = $7, storage_path = $8, content = $9,
		    url = $10, updated_at = NOW()
		WHERE uuid = $1 AND deleted = FALSE
	`
	result, err := exec.ExecContext(
		ctx,
		query,
		response.UUID,
		response.Privacy,
		response.Title,
		response.FileName,
		response.MimeType,
		response.SizeBytes,
		response.Sha256,
		response.StoragePath,
		response.Content,
		response.URL)

	if err != nil {
		return util.LogError("[ResponseRepo] не удалось обновить ответ", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrResponseNotFound
	}
	return nil
}

// MarkDeleted : мягкое удаление; строка остаётся для аудита
func (r *ResponseRepository) MarkDeleted(ctx context.Context, exec sqlx.ExtContext, responseUUID string) error {
	query := `
		UPDATE responses
		SET deleted = TRUE, updated_at = NOW()
		WHERE uuid = $1 AND deleted = FALSE
	`
	result, err := exec.ExecContext(ctx, query, responseUUID)
	if err != nil {
		return util.LogError("[ResponseRepo] не удалось пометить ответ удалённым", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrResponseNotFound
	}
	return nil
}

// ListByRequest : все неудалённые ответы запроса; приватные — только
// для агентства
func (r *ResponseRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string, includePrivate bool) ([]model.Response, error) {
	query := `
		SELECT uuid, request_id, type, privacy, deleted, title,
		       file_name, mime_type, size_bytes, sha256, storage_path,
		       content, url, extension_days, extension_reason, date_extended_to,
		       created_at, updated_at
		FROM responses
		WHERE request_id = $1 AND deleted = FALSE
		  AND ($2 OR privacy = 'release_public')
		ORDER BY created_at ASC, uuid ASC
	`

	responses := []model.Response{}
	err := sqlx.SelectContext(ctx, exec, &responses, query, requestID, includePrivate)
	if err != nil {
		return nil, util.LogError("[ResponseRepo] не удалось получить список ответов", err)
	}
	return responses, nil
}

// CreateToken : сохраняет временный токен доступа к ответу
func (r *ResponseRepository) CreateToken(ctx context.Context, exec sqlx.ExtContext, token *model.ResponseToken) error {
	query := `
		INSERT INTO response_tokens (token, response_uuid, expire_at, used, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
	`
	_, err := exec.ExecContext(ctx, query, token.Token, token.ResponseUUID, token.ExpireAt)
	if err != nil {
		return util.LogError("[ResponseRepo] не удалось сохранить токен", err)
	}
	return nil
}

// GetToken : возвращает строку токена без оценки его состояния
func (r *ResponseRepository) GetToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.ResponseToken, error) {
	query := `
		SELECT token, response_uuid, expire_at, used, created_at
		FROM response_tokens
		WHERE token = $1
	`

	var responseToken model.ResponseToken
	err := sqlx.GetContext(ctx, exec, &responseToken, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, util.LogError("[ResponseRepo] не удалось получить токен", err)
	}

	return &responseToken, nil
}

// MarkTokenUsed : отмечает токен использованным (переход valid -> consumed)
func (r *ResponseRepository) MarkTokenUsed(ctx context.Context, exec sqlx.ExtContext, token string) error {
	_, err := exec.ExecContext(ctx, `UPDATE response_tokens SET used = TRUE WHERE token = $1`, token)
	if err != nil {
		return util.LogError("[ResponseRepo] не удалось отметить токен использованным", err)
	}
	return nil
}

// DeleteToken : удаляет протухший или использованный токен
func (r *ResponseRepository) DeleteToken(ctx context.Context, exec sqlx.ExtContext, token string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM response_tokens WHERE token = $1`, token)
	if err != nil {
		return util.LogError("[ResponseRepo] не удалось удалить токен", err)
	}
	return nil
}

func (r *ResponseRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}

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

type RequestRepository struct {
	*config.Database
}

func NewRequestRepository(database *config.Database) *RequestRepository {
	return &RequestRepository{database}
}

// GetByID : возвращает запрос FOIL по идентификатору
func (r *RequestRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, requestID string) (*model.Request, error) {
	query := `
		SELECT id, agency_ein, agency_name, title, title_private, description,
		       agency_description, agency_description_private, requester_guid,
		       status, date_submitted, date_due, created_at, updated_at, closed_at
		FROM requests
		WHERE id = $1
	`

	var request model.Request
	err := sqlx.GetContext(ctx, exec, &request, query, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, util.LogError("[RequestRepo] не удалось получить запрос", err)
	}

	return &request, nil
}

// ExtendDueDate : сдвигает срок исполнения запроса на days дней вперёд
func (r *RequestRepository) ExtendDueDate(ctx context.Context, exec sqlx.ExtContext, requestID string, days int) (*model.Request, error) {
	query := `
		UPDATE requests
		SET date_due = date_due + make_interval(days => $2), updated_at = NOW()
		WHERE id = $1
		RETURNING id, agency_ein, agency_name, title, title_private, description,
		          agency_description, agency_description_private, requester_guid,
		          status, date_submitted, date_due, created_at, updated_at, closed_at
	`

	var request model.Request
	err := sqlx.GetContext(ctx, exec, &request, query, requestID, days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, util.LogError("[RequestRepo] не удалось продлить срок запроса", err)
	}

	return &request, nil
}

// UpdateStatus : меняет статус запроса; closed_at выставляется при закрытии
func (r *RequestRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, requestID, status string) error {
	query := `
		UPDATE requests
		SET status = $2,
		    closed_at = CASE WHEN $2 = 'closed' THEN NOW() ELSE closed_at END,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := exec.ExecContext(ctx, query, requestID, status)
	if err != nil {
		return util.LogError("[RequestRepo] не удалось обновить статус запроса", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}

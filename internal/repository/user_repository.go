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

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// FindByGUID : ищет пользователя по guid
func (r *UserRepository) FindByGUID(ctx context.Context, exec sqlx.ExtContext, guid string) (*model.User, error) {
	query := `
		SELECT guid, auth_type, email, notification_email, first_name, last_name,
		       password_hash, is_agency_admin, agency_ein, created_at
		FROM users
		WHERE guid = $1
	`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, guid)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := `
		SELECT guid, auth_type, email, notification_email, first_name, last_name,
		       password_hash, is_agency_admin, agency_ein, created_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, email)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по email", err)
	}
	return &user, nil
}

// GetAgencyEmails : адреса сотрудников агентства, владеющего запросом;
// adminsOnly ограничивает выборку администраторами. Справочник
// получателей для уведомлений
func (r *UserRepository) GetAgencyEmails(ctx context.Context, exec sqlx.ExtContext, requestID string, adminsOnly bool) ([]string, error) {
	query := `
		SELECT COALESCE(NULLIF(u.notification_email, ''), u.email)
		FROM users AS u
		INNER JOIN requests AS req ON u.agency_ein = req.agency_ein
		WHERE req.id = $1
		  AND u.auth_type = $2
		  AND ($3 = FALSE OR u.is_agency_admin = TRUE)
	`

	var emails []string
	err := sqlx.SelectContext(ctx, exec, &emails, query, requestID, model.AuthTypeAgency, adminsOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить адреса агентства", err)
	}
	return emails, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

// SearchRepository : вторичный поисковый индекс запросов FOIL в таблице
// request_index. Индекс хранит все поля, видимость применяется на этапе
// запроса в зависимости от роли вызывающего. Обновляется best-effort
// после коммита основной транзакции; ReindexAll пересобирает его целиком.
type SearchRepository struct {
	*config.Database
}

func NewSearchRepository(database *config.Database) *SearchRepository {
	return &SearchRepository{database}
}

const indexColumns = `request_id, agency_ein, agency_name, title, title_private,
	description, agency_description, agency_description_private,
	requester_guid, requester_name, status, date_submitted, date_due`

const indexSelectFromRequests = `
	SELECT req.id, req.agency_ein, req.agency_name, req.title, req.title_private,
	       req.description, req.agency_description, req.agency_description_private,
	       req.requester_guid, COALESCE(u.first_name || ' ' || u.last_name, ''),
	       req.status, req.date_submitted, req.date_due
	FROM requests AS req
	LEFT JOIN users AS u ON u.guid = req.requester_guid
`

// Upsert : синхронизирует один документ индекса с канонической записью
func (r *SearchRepository) Upsert(ctx context.Context, requestID string) error {
	query := `
		INSERT INTO request_index (` + indexColumns + `)
		` + indexSelectFromRequests + `
		WHERE req.id = $1
		ON CONFLICT (request_id) DO UPDATE SET
			agency_ein = EXCLUDED.agency_ein,
			agency_name = EXCLUDED.agency_name,
			title = EXCLUDED.title,
			title_private = EXCLUDED.title_private,
			description = EXCLUDED.description,
			agency_description = EXCLUDED.agency_description,
			agency_description_private = EXCLUDED.agency_description_private,
			requester_guid = EXCLUDED.requester_guid,
			requester_name = EXCLUDED.requester_name,
			status = EXCLUDED.status,
			date_submitted = EXCLUDED.date_submitted,
			date_due = EXCLUDED.date_due
	`
	_, err := r.DB.ExecContext(ctx, query, requestID)
	if err != nil {
		return util.LogError("[SearchRepo] не удалось обновить документ индекса", err)
	}
	return nil
}

// Delete : убирает документ из индекса
func (r *SearchRepository) Delete(ctx context.Context, requestID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM request_index WHERE request_id = $1`, requestID)
	if err != nil {
		return util.LogError("[SearchRepo] не удалось удалить документ индекса", err)
	}
	return nil
}

// ReindexAll : полная пересборка индекса из канонических записей,
// путь реконсиляции при расхождениях
func (r *SearchRepository) ReindexAll(ctx context.Context) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return util.LogError("[SearchRepo] не удалось начать транзакцию пересборки", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE request_index`); err != nil {
		return util.LogError("[SearchRepo] не удалось очистить индекс", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO request_index (`+indexColumns+`) `+indexSelectFromRequests); err != nil {
		return util.LogError("[SearchRepo] не удалось пересобрать индекс", err)
	}

	if err := tx.Commit(); err != nil {
		return util.LogError("[SearchRepo] не удалось закоммитить пересборку индекса", err)
	}
	return nil
}

// Query : поиск по индексу. Предусловия по ролям (какие поля разрешены)
// обеспечивает вызывающий сервис; здесь применяются правила видимости
// приватных полей. Ошибка выполнения отдаётся как ErrSearchUnavailable,
// чтобы вызывающий отличал недоступный поиск от нуля совпадений.
func (r *SearchRepository) Query(ctx context.Context, opts model.SearchOptions) (*model.SearchResults, error) {
	where, args := buildSearchConditions(opts)

	cond := "TRUE"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM request_index WHERE ` + cond

	var total int
	if err := sqlx.GetContext(ctx, r.DB, &total, countQuery, args...); err != nil {
		util.LogError("[SearchRepo] ошибка запроса к индексу", err)
		return nil, ErrSearchUnavailable
	}

	query := `
		SELECT request_id, agency_ein, agency_name, title, description,
		       agency_description, requester_name, status, date_submitted, date_due
		FROM request_index
		WHERE ` + cond + `
		ORDER BY ` + buildSearchOrder(opts)

	args = append(args, opts.Size, opts.Start)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	hits := []model.RequestHit{}
	if err := sqlx.SelectContext(ctx, r.DB, &hits, query, args...); err != nil {
		util.LogError("[SearchRepo] ошибка запроса к индексу", err)
		return nil, ErrSearchUnavailable
	}

	return &model.SearchResults{Total: total, Hits: hits}, nil
}

// buildSearchConditions : собирает WHERE по включённым полям поиска,
// фильтрам дат, агентства и статусов
func buildSearchConditions(opts model.SearchOptions) ([]string, []interface{}) {
	where := []string{}
	args := []interface{}{}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	agency := opts.Role == model.SearchRoleAgency

	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		fields := []string{}

		if opts.FoilID {
			fields = append(fields, fmt.Sprintf("request_id ILIKE %s", arg(pattern)))
		}
		if opts.Title {
			titleCond := fmt.Sprintf("title ILIKE %s", arg(pattern))
			if !agency {
				// приватные заголовки видит только агентство и сам заявитель
				titleCond = fmt.Sprintf("(%s AND (title_private = FALSE OR requester_guid = %s))",
					titleCond, arg(opts.CallerGUID))
			}
			fields = append(fields, titleCond)
		}
		if opts.AgencyDescription {
			descCond := fmt.Sprintf("agency_description ILIKE %s", arg(pattern))
			if !agency {
				descCond = fmt.Sprintf("(%s AND agency_description_private = FALSE)", descCond)
			}
			fields = append(fields, descCond)
		}
		if opts.Description {
			descCond := fmt.Sprintf("description ILIKE %s", arg(pattern))
			if !agency {
				descCond = fmt.Sprintf("(%s AND requester_guid = %s)", descCond, arg(opts.CallerGUID))
			}
			fields = append(fields, descCond)
		}
		if opts.RequesterName {
			fields = append(fields, fmt.Sprintf("requester_name ILIKE %s", arg(pattern)))
		}

		if len(fields) > 0 {
			where = append(where, "("+strings.Join(fields, " OR ")+")")
		}
	}

	statuses := []string{}
	if opts.Open {
		statuses = append(statuses, model.StatusOpen)
	}
	if opts.Closed {
		statuses = append(statuses, model.StatusClosed)
	}
	if opts.InProgress {
		statuses = append(statuses, model.StatusInProgress)
	}
	if opts.DueSoon {
		statuses = append(statuses, model.StatusDueSoon)
	}
	if opts.Overdue {
		statuses = append(statuses, model.StatusOverdue)
	}
	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for _, status := range statuses {
			placeholders = append(placeholders, arg(status))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if opts.DateRecFrom != nil {
		where = append(where, fmt.Sprintf("date_submitted >= %s", arg(*opts.DateRecFrom)))
	}
	if opts.DateRecTo != nil {
		where = append(where, fmt.Sprintf("date_submitted <= %s", arg(*opts.DateRecTo)))
	}
	if opts.DateDueFrom != nil {
		where = append(where, fmt.Sprintf("date_due >= %s", arg(*opts.DateDueFrom)))
	}
	if opts.DateDueTo != nil {
		where = append(where, fmt.Sprintf("date_due <= %s", arg(*opts.DateDueTo)))
	}
	if opts.AgencyEIN != nil {
		where = append(where, fmt.Sprintf("agency_ein = %s", arg(*opts.AgencyEIN)))
	}

	return where, args
}

// buildSearchOrder : многоключевая сортировка со стабильным tie-break
// по первичному ключу
func buildSearchOrder(opts model.SearchOptions) string {
	keys := []string{}

	appendKey := func(column, direction string) {
		switch strings.ToLower(direction) {
		case "asc":
			keys = append(keys, column+" ASC")
		case "desc":
			keys = append(keys, column+" DESC")
		}
	}

	appendKey("date_submitted", opts.SortDateSubmitted)
	appendKey("date_due", opts.SortDateDue)
	appendKey("title", opts.SortTitle)

	if len(keys) == 0 {
		keys = append(keys, "date_submitted DESC")
	}
	keys = append(keys, "request_id ASC")

	return strings.Join(keys, ", ")
}

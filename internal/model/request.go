package model

import "time"

// Статусы запроса. Значения хранятся в БД и в поисковом индексе.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDueSoon    = "due_soon"
	StatusOverdue    = "overdue"
	StatusClosed     = "closed"
)

// Request : запрос FOIL. Никогда не удаляется физически,
// жизненный цикл выражается через status.
type Request struct {
	ID                       string     `db:"id" json:"id"` // например "FOIL-2024-001"
	AgencyEIN                int        `db:"agency_ein" json:"agency_ein"`
	AgencyName               string     `db:"agency_name" json:"agency_name"`
	Title                    string     `db:"title" json:"title"`
	TitlePrivate             bool       `db:"title_private" json:"title_private"`
	Description              string     `db:"description" json:"description"`
	AgencyDescription        string     `db:"agency_description" json:"agency_description"`
	AgencyDescriptionPrivate bool       `db:"agency_description_private" json:"agency_description_private"`
	RequesterGUID            string     `db:"requester_guid" json:"requester_guid"`
	Status                   string     `db:"status" json:"status"`
	DateSubmitted            time.Time  `db:"date_submitted" json:"date_submitted"`
	DateDue                  time.Time  `db:"date_due" json:"date_due"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
	ClosedAt                 *time.Time `db:"closed_at" json:"closed_at,omitempty"`
}

package model

import "time"

// Роль вызывающего при поиске: от неё зависит, какие поля разрешено
// искать и какие фильтры статусов доступны. Видимость применяется на
// этапе запроса, индекс хранит все поля.
const (
	SearchRoleAnonymous = "anonymous"
	SearchRolePublic    = "public"
	SearchRoleAgency    = "agency"
)

// SearchOptions : параметры поиска по запросам FOIL
type SearchOptions struct {
	Query string

	// какие поля искать
	FoilID            bool
	Title             bool
	AgencyDescription bool
	Description       bool
	RequesterName     bool

	// фильтры
	DateRecFrom *time.Time
	DateRecTo   *time.Time
	DateDueFrom *time.Time
	DateDueTo   *time.Time
	AgencyEIN   *int

	// статусы
	Open       bool
	Closed     bool
	InProgress bool
	DueSoon    bool
	Overdue    bool

	// пагинация
	Size  int
	Start int

	// сортировка: "asc" / "desc" / ""
	SortDateSubmitted string
	SortDateDue       string
	SortTitle         string

	// вызывающий
	Role          string
	CallerGUID    string
	CallerTZ      string // имя таймзоны для экспорта, например "America/New_York"
}

// RequestHit : один результат поиска
type RequestHit struct {
	RequestID         string    `db:"request_id" json:"request_id"`
	AgencyEIN         int       `db:"agency_ein" json:"agency_ein"`
	AgencyName        string    `db:"agency_name" json:"agency_name"`
	Title             string    `db:"title" json:"title"`
	Description       string    `db:"description" json:"description"`
	AgencyDescription string    `db:"agency_description" json:"agency_description"`
	RequesterName     string    `db:"requester_name" json:"requester_name"`
	Status            string    `db:"status" json:"status"`
	DateSubmitted     time.Time `db:"date_submitted" json:"date_submitted"`
	DateDue           time.Time `db:"date_due" json:"date_due"`
}

// SearchResults : результат поиска с общим количеством совпадений
type SearchResults struct {
	Total int          `json:"total"`
	Hits  []RequestHit `json:"hits"`
}

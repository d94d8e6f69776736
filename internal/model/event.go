package model

import "time"

// Типы событий аудита. Значения хранятся в БД, перенумеровывать нельзя.
const (
	EventUserAdded       = "user_added"
	EventUserRemoved     = "user_removed"
	EventUserPermChanged = "user_permissions_changed"

	EventRequestCreated       = "request_created"
	EventRequestStatusChanged = "request_status_changed"

	EventNoteAdded   = "note_added"
	EventNoteEdited  = "note_edited"
	EventNoteDeleted = "note_deleted"

	EventFileAdded   = "file_added"
	EventFileEdited  = "file_edited"
	EventFileRemoved = "file_removed"

	EventLinkAdded   = "link_added"
	EventLinkEdited  = "link_edited"
	EventLinkRemoved = "link_removed"

	EventInstructionAdded   = "instruction_added"
	EventInstructionEdited  = "instruction_edited"
	EventInstructionRemoved = "instruction_removed"

	EventExtensionAdded   = "extension_added"
	EventExtensionEdited  = "extension_edited"
	EventExtensionRemoved = "extension_removed"
)

// Event : неизменяемая запись аудита. Создаётся только мутирующими
// операциями, никогда не обновляется и не удаляется.
// PreviousValue/NewValue — компактные снимки "поле -> значение",
// а не полные дампы сущностей.
type Event struct {
	ID            int64                  `db:"id" json:"id"`
	RequestID     string                 `db:"request_id" json:"request_id"`
	UserGUID      string                 `db:"user_guid" json:"user_guid"`
	AuthType      string                 `db:"auth_type" json:"auth_type"`
	Type          string                 `db:"type" json:"type"`
	PreviousValue map[string]interface{} `db:"-" json:"previous_value,omitempty"`
	NewValue      map[string]interface{} `db:"-" json:"new_value,omitempty"`
	Timestamp     time.Time              `db:"timestamp" json:"timestamp"`
}

// Actor : кто выполняет действие. Идёт в журнал аудита; флаг
// IsAgencyAdmin обходит проверку прав на конкретном запросе.
type Actor struct {
	UserGUID      string
	AuthType      string
	IsAgencyAdmin bool
}

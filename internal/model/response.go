package model

import "time"

// Типы ответов. Дискриминант tagged-variant, значения стабильны.
const (
	ResponseTypeFile        = "file"
	ResponseTypeNote        = "note"
	ResponseTypeLink        = "link"
	ResponseTypeExtension   = "extension"
	ResponseTypeInstruction = "instruction"
)

// Privacy ответа. Значения стабильны.
const (
	PrivacyPrivate        = "private"
	PrivacyReleasePrivate = "release_private"
	PrivacyReleasePublic  = "release_public"
)

// Response : один ответ агентства на запрос FOIL. Вариант определяется
// полем Type, незадействованные поля варианта остаются пустыми (NULL в БД).
// Удалённый ответ (Deleted=true) исключается из всех выборок кроме аудита.
type Response struct {
	UUID      string    `db:"uuid" json:"uuid"`
	RequestID string    `db:"request_id" json:"request_id"`
	Type      string    `db:"type" json:"type"`
	Privacy   string    `db:"privacy" json:"privacy"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// file
	FileName    string `db:"file_name" json:"file_name,omitempty"`
	MimeType    string `db:"mime_type" json:"mime_type,omitempty"`
	SizeBytes   int64  `db:"size_bytes" json:"size_bytes,omitempty"`
	Sha256      string `db:"sha256" json:"sha256,omitempty"`
	StoragePath string `db:"storage_path" json:"storage_path,omitempty"`

	// note, instruction
	Content string `db:"content" json:"content,omitempty"`

	// link
	URL string `db:"url" json:"url,omitempty"`

	// extension
	ExtensionDays   int        `db:"extension_days" json:"extension_days,omitempty"`
	ExtensionReason string     `db:"extension_reason" json:"extension_reason,omitempty"`
	DateExtendedTo  *time.Time `db:"date_extended_to" json:"date_extended_to,omitempty"`
}

// ValidPrivacy : проверяет, что значение privacy одно из известных
func ValidPrivacy(privacy string) bool {
	switch privacy {
	case PrivacyPrivate, PrivacyReleasePrivate, PrivacyReleasePublic:
		return true
	}
	return false
}

// ValidResponseType : проверяет, что тип ответа один из известных
func ValidResponseType(responseType string) bool {
	switch responseType {
	case ResponseTypeFile, ResponseTypeNote, ResponseTypeLink,
		ResponseTypeExtension, ResponseTypeInstruction:
		return true
	}
	return false
}

// ResponseToken : временный токен неавторизованного доступа к одному ответу.
// Состояния только вперёд: valid -> expired (по времени), valid -> consumed
// (по использованию). Протухший или использованный токен удаляется из БД
// при первом обращении и далее неотличим от отсутствующего.
type ResponseToken struct {
	Token        string    `db:"token"`
	ResponseUUID string    `db:"response_uuid"`
	ExpireAt     time.Time `db:"expire_at"`
	Used         bool      `db:"used"`
	CreatedAt    time.Time `db:"created_at"`
}

// Expired : true, если срок действия токена на момент now истёк
func (t *ResponseToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpireAt)
}

// ResponseDiff : разница между запрошенными изменениями и текущим
// состоянием ответа, только по реально изменившимся полям
type ResponseDiff struct {
	Old map[string]interface{} `json:"old"`
	New map[string]interface{} `json:"new"`
}

// NoChange : ни одно поле не изменилось
func (d *ResponseDiff) NoChange() bool {
	return d == nil || len(d.New) == 0
}

package requestresponse

import (
	"time"

	"foil-records-server/internal/model"
)

// AddNoteRequest : тело запроса на добавление заметки
type AddNoteRequest struct {
	Content string `json:"content" example:"Records located, review in progress"`
	Privacy string `json:"privacy" example:"release_public"`
}

// AddLinkRequest : тело запроса на добавление ссылки
type AddLinkRequest struct {
	Title   string `json:"title" example:"Budget FY2024"`
	URL     string `json:"url" example:"https://example.gov/budget.pdf"`
	Privacy string `json:"privacy" example:"release_public"`
}

// AddInstructionRequest : тело запроса на добавление офлайн-инструкции
type AddInstructionRequest struct {
	Content string `json:"content"`
	Privacy string `json:"privacy"`
}

// AddExtensionRequest : тело запроса на продление срока
type AddExtensionRequest struct {
	Days   int    `json:"days" example:"20"`
	Reason string `json:"reason" example:"Volume of records requires additional time"`
}

// UploadedFile : метаданные одного загружаемого файла
type UploadedFile struct {
	Title   string `json:"title"`
	Privacy string `json:"privacy"`
}

// AddFilesRequest : метаданные файлов + общий текст письма
type AddFilesRequest struct {
	Files        map[string]UploadedFile `json:"files"` // имя файла -> мета
	EmailContent string                  `json:"email_content"`
}

// EditResponseRequest : запрошенные изменения полей ответа
type EditResponseRequest struct {
	Changes map[string]string `json:"changes"`
}

// DeleteResponseRequest : строка подтверждения формата "<request_id>:<response_id>"
type DeleteResponseRequest struct {
	Confirmation string `json:"confirmation" example:"FOIL-2024-001:7f3c9a"`
}

// EditResult : итог применения изменений редактором
type EditResult struct {
	NoChange bool                   `json:"no_change"`
	Errors   []model.FieldError     `json:"errors,omitempty"`
	Old      map[string]interface{} `json:"old,omitempty"`
	New      map[string]interface{} `json:"new,omitempty"`
}

// ResponseView : ответ агентства для JSON-выдачи
type ResponseView struct {
	UUID      string `json:"uuid"`
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
	Privacy   string `json:"privacy"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	URL       string `json:"url,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	GetURL    string `json:"get_url,omitempty"` // pre-signed URL, если ответ файловый
	CreatedAt string `json:"created_at"`
}

// ResponseViewFromModel : конвертирует model.Response в ResponseView
func ResponseViewFromModel(resp *model.Response, getURL string) ResponseView {
	return ResponseView{
		UUID:      resp.UUID,
		RequestID: resp.RequestID,
		Type:      resp.Type,
		Privacy:   resp.Privacy,
		Title:     resp.Title,
		Content:   resp.Content,
		URL:       resp.URL,
		FileName:  resp.FileName,
		MimeType:  resp.MimeType,
		SizeBytes: resp.SizeBytes,
		GetURL:    getURL,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}

// IssueTokenResponse : выданный токен доступа к ответу
type IssueTokenResponse struct {
	Token    string `json:"token"`
	ExpireAt string `json:"expire_at"`
}

// ErrorResponse : стандартный конверт ошибки
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

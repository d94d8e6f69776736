package service

import (
	"bytes"
	"fmt"
	"text/template"

	"foil-records-server/internal/util"
)

// TemplateService : рендер писем по идентификатору шаблона. Ядро передаёт
// структурный контекст, разметка живёт только здесь.
type TemplateService struct {
	templates map[string]*template.Template
}

// Тексты писем. Ключи контекста совпадают с тем, что кладут сервисы
// в NotificationTask.Context.
var templateSources = map[string]string{
	TemplateResponseAdded: `A response has been added to FOIL request {{.request_id}}.

Type: {{.response_type}}
{{- if .title}}
Title: {{.title}}
{{- end}}

Visit the request page to view the response.`,

	TemplateResponseEdited: `A response on FOIL request {{.request_id}} has been edited.

Type: {{.response_type}}

Visit the request page to view the updated response.`,

	TemplateResponseDeleted: `A response on FOIL request {{.request_id}} has been removed.`,

	TemplateFileUpload: `The following files have been added to FOIL request {{.request_id}}:
{{range .file_names}}
  - {{.}}
{{- end}}
{{if .content}}
{{.content}}
{{end}}`,

	TemplateUserRequestAdded: `{{if .admin}}User {{.user_name}} ({{.user_guid}}) has been given access to FOIL request {{.request_id}}.{{else}}You have been given access to FOIL request {{.request_id}}.{{end}}

Permissions:
{{range .permissions}}
  - {{.}}
{{- end}}`,

	TemplateUserRequestEdited: `{{if .admin}}Permissions for user {{.user_guid}} on FOIL request {{.request_id}} have changed.{{else}}Your permissions on FOIL request {{.request_id}} have changed.{{end}}
{{if .granted}}
Granted:
{{range .granted}}
  - {{.}}
{{- end}}
{{end}}
{{- if .revoked}}
Revoked:
{{range .revoked}}
  - {{.}}
{{- end}}
{{end}}`,

	TemplateUserRequestRemoved: `{{if .admin}}User {{.user_guid}} no longer has access to FOIL request {{.request_id}}.{{else}}Your access to FOIL request {{.request_id}} has been removed.{{end}}`,
}

func NewTemplateService() (*TemplateService, error) {
	templates := make(map[string]*template.Template, len(templateSources))
	for id, source := range templateSources {
		parsed, err := template.New(id).Parse(source)
		if err != nil {
			return nil, util.LogError("[TemplateService] ошибка разбора шаблона "+id, err)
		}
		templates[id] = parsed
	}
	return &TemplateService{templates: templates}, nil
}

// Render : исполняет шаблон с переданным контекстом
func (s *TemplateService) Render(templateID string, context map[string]interface{}) (string, error) {
	parsed, ok := s.templates[templateID]
	if ok == false {
		return "", fmt.Errorf("[TemplateService] неизвестный шаблон %q", templateID)
	}

	var buffer bytes.Buffer
	if err := parsed.Execute(&buffer, context); err != nil {
		return "", util.LogError("[TemplateService] ошибка рендера шаблона "+templateID, err)
	}

	return buffer.String(), nil
}

package service

import (
	"fmt"
	"net/url"
	"sort"

	"foil-records-server/internal/model"
)

// ResponseEditor : редактор одного варианта ответа. Validate собирает все
// ошибки валидации разом и ничего не пишет; Diff сужает запрошенные
// изменения до реально изменившихся полей; Apply переносит diff в модель.
type ResponseEditor interface {
	Validate(changes map[string]string) []model.FieldError
	Diff(changes map[string]string) *model.ResponseDiff
	Apply(diff *model.ResponseDiff)
	EditedEventType() string
	DeletedEventType() string
}

// fieldSpec : одно редактируемое поле варианта
type fieldSpec struct {
	get      func(r *model.Response) string
	set      func(r *model.Response, value string)
	validate func(value string) string // текст ошибки или ""
}

// variantEditor : общая механика редактора, вариант задаётся набором полей
type variantEditor struct {
	response    *model.Response
	fields      map[string]fieldSpec
	required    []string // поля, обязанные присутствовать в changes
	editedType  string
	deletedType string
}

// NewResponseEditor : подбирает редактор по типу ответа
func NewResponseEditor(response *model.Response) (ResponseEditor, error) {
	switch response.Type {
	case model.ResponseTypeNote:
		return newNoteEditor(response), nil
	case model.ResponseTypeFile:
		return newFileEditor(response), nil
	case model.ResponseTypeLink:
		return newLinkEditor(response), nil
	case model.ResponseTypeInstruction:
		return newInstructionEditor(response), nil
	case model.ResponseTypeExtension:
		return newExtensionEditor(response), nil
	}
	return nil, fmt.Errorf("[ResponseEditor] неизвестный тип ответа: %q", response.Type)
}

func (e *variantEditor) Validate(changes map[string]string) []model.FieldError {
	fieldErrors := []model.FieldError{}

	for _, field := range e.required {
		if value, ok := changes[field]; ok == false || value == "" {
			fieldErrors = append(fieldErrors, model.NewFieldError(field, "поле обязательно при редактировании"))
		}
	}

	for _, field := range sortedKeys(changes) {
		spec, ok := e.fields[field]
		if ok == false {
			fieldErrors = append(fieldErrors, model.NewFieldError(field, "поле недоступно для этого типа ответа"))
			continue
		}
		if spec.validate != nil {
			if message := spec.validate(changes[field]); message != "" {
				fieldErrors = append(fieldErrors, model.NewFieldError(field, message))
			}
		}
	}

	return fieldErrors
}

func (e *variantEditor) Diff(changes map[string]string) *model.ResponseDiff {
	diff := &model.ResponseDiff{
		Old: map[string]interface{}{},
		New: map[string]interface{}{},
	}

	for field, value := range changes {
		spec, ok := e.fields[field]
		if ok == false {
			continue
		}
		current := spec.get(e.response)
		if current != value {
			diff.Old[field] = current
			diff.New[field] = value
		}
	}

	return diff
}

func (e *variantEditor) Apply(diff *model.ResponseDiff) {
	if diff.NoChange() {
		return
	}
	for field, value := range diff.New {
		spec, ok := e.fields[field]
		if ok == false {
			continue
		}
		text, ok := value.(string)
		if ok == false {
			continue
		}
		spec.set(e.response, text)
	}
}

func (e *variantEditor) EditedEventType() string {
	return e.editedType
}

func (e *variantEditor) DeletedEventType() string {
	return e.deletedType
}

func newNoteEditor(response *model.Response) *variantEditor {
	return &variantEditor{
		response: response,
		fields: map[string]fieldSpec{
			"title":   titleField(),
			"content": contentField(),
			"privacy": privacyField(),
		},
		editedType:  model.EventNoteEdited,
		deletedType: model.EventNoteDeleted,
	}
}

func newInstructionEditor(response *model.Response) *variantEditor {
	return &variantEditor{
		response: response,
		fields: map[string]fieldSpec{
			"title":   titleField(),
			"content": contentField(),
			"privacy": privacyField(),
		},
		editedType:  model.EventInstructionEdited,
		deletedType: model.EventInstructionRemoved,
	}
}

func newLinkEditor(response *model.Response) *variantEditor {
	return &variantEditor{
		response: response,
		fields: map[string]fieldSpec{
			"title": titleField(),
			"url": {
				get: func(r *model.Response) string { return r.URL },
				set: func(r *model.Response, v string) { r.URL = v },
				validate: func(v string) string {
					parsed, err := url.ParseRequestURI(v)
					if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
						return "ожидается абсолютный http(s) URL"
					}
					return ""
				},
			},
			"privacy": privacyField(),
		},
		editedType:  model.EventLinkEdited,
		deletedType: model.EventLinkRemoved,
	}
}

// Редактирование файлового ответа всегда адресует конкретный файл,
// поэтому file_name в changes обязателен даже без переименования.
func newFileEditor(response *model.Response) *variantEditor {
	return &variantEditor{
		response: response,
		fields: map[string]fieldSpec{
			"title": titleField(),
			"file_name": {
				get: func(r *model.Response) string { return r.FileName },
				set: func(r *model.Response, v string) { r.FileName = v },
			},
			"privacy": privacyField(),
		},
		required:    []string{"file_name"},
		editedType:  model.EventFileEdited,
		deletedType: model.EventFileRemoved,
	}
}

func newExtensionEditor(response *model.Response) *variantEditor {
	return &variantEditor{
		response: response,
		fields: map[string]fieldSpec{
			"title": titleField(),
			"extension_reason": {
				get: func(r *model.Response) string { return r.ExtensionReason },
				set: func(r *model.Response, v string) { r.ExtensionReason = v },
			},
			"privacy": privacyField(),
		},
		editedType:  model.EventExtensionEdited,
		deletedType: model.EventExtensionRemoved,
	}
}

func titleField() fieldSpec {
	return fieldSpec{
		get: func(r *model.Response) string { return r.Title },
		set: func(r *model.Response, v string) { r.Title = v },
	}
}

func contentField() fieldSpec {
	return fieldSpec{
		get: func(r *model.Response) string { return r.Content },
		set: func(r *model.Response, v string) { r.Content = v },
		validate: func(v string) string {
			if v == "" {
				return "содержимое не может быть пустым"
			}
			return ""
		},
	}
}

func privacyField() fieldSpec {
	return fieldSpec{
		get: func(r *model.Response) string { return r.Privacy },
		set: func(r *model.Response, v string) { r.Privacy = v },
		validate: func(v string) string {
			if model.ValidPrivacy(v) == false {
				return "недопустимое значение privacy"
			}
			return ""
		},
	}
}

func sortedKeys(changes map[string]string) []string {
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package model

// FieldError : одна ошибка валидации на уровне поля. Редакторы ответов
// собирают все найденные проблемы, а не только первую.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewFieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

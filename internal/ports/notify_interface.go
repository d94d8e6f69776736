package ports

import (
	"context"

	"foil-records-server/internal/model"
)

// TemplateRenderer : внешний рендер писем. Ядро передаёт структурный
// контекст, никогда не сырую разметку.
type TemplateRenderer interface {
	Render(templateID string, context map[string]interface{}) (string, error)
}

// EmailSender : транспорт доставки писем
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// NotificationDispatcher : best-effort отправка уведомлений. Ошибка
// доставки логируется и никогда не возвращается вызывающему.
type NotificationDispatcher interface {
	Send(ctx context.Context, requestID, content, subject string, recipients []string)
	SendTask(ctx context.Context, task *model.NotificationTask)
}

// TaskPublisher : публикация задач второй фазы в очередь
type TaskPublisher interface {
	PublishNotification(ctx context.Context, task *model.NotificationTask) error
	PublishIndexUpdate(ctx context.Context, task *model.IndexTask) error
}

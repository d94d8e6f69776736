package service

import (
	"context"
	"log"

	"foil-records-server/internal/model"
	"foil-records-server/internal/ports"
)

// NotificationService : best-effort доставка писем. Ошибка рендера или
// доставки логируется и никогда не возвращается вызывающему: судьба
// письма не влияет на исход операции, которая его породила.
type NotificationService struct {
	renderer ports.TemplateRenderer
	sender   ports.EmailSender
}

func NewNotificationService(renderer ports.TemplateRenderer, sender ports.EmailSender) *NotificationService {
	return &NotificationService{
		renderer: renderer,
		sender:   sender,
	}
}

// Send : отправляет готовый текст получателям
func (s *NotificationService) Send(ctx context.Context, requestID, content, subject string, recipients []string) {
	if len(recipients) == 0 {
		return
	}

	if err := s.sender.Send(ctx, recipients, subject, content); err != nil {
		log.Printf("[NotificationService] ошибка доставки письма по запросу %s: %v", requestID, err)
		return
	}

	log.Printf("[NotificationService] письмо по запросу %s отправлено %d получателям", requestID, len(recipients))
}

// SendTask : рендерит шаблон задачи и отправляет результат
func (s *NotificationService) SendTask(ctx context.Context, task *model.NotificationTask) {
	content, err := s.renderer.Render(task.TemplateID, task.Context)
	if err != nil {
		log.Printf("[NotificationService] ошибка рендера шаблона %s: %v", task.TemplateID, err)
		return
	}

	s.Send(ctx, task.RequestID, content, task.Subject, task.Recipients)
}

package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

// QueuePublisher : публикация задач второй фазы в RabbitMQ. Сообщения
// persistent, очереди durable. Ошибка публикации возвращается, но
// вызывающие её только логируют: фаза 1 уже закоммичена.
type QueuePublisher struct {
	broker *config.QueueBroker
}

func NewQueuePublisher(broker *config.QueueBroker) *QueuePublisher {
	return &QueuePublisher{broker: broker}
}

// PublishNotification : кладёт задачу уведомления в очередь
func (p *QueuePublisher) PublishNotification(ctx context.Context, task *model.NotificationTask) error {
	return p.publish(ctx, p.broker.Cfg.NotificationQueue, task)
}

// PublishIndexUpdate : кладёт задачу синхронизации индекса в очередь
func (p *QueuePublisher) PublishIndexUpdate(ctx context.Context, task *model.IndexTask) error {
	return p.publish(ctx, p.broker.Cfg.IndexQueue, task)
}

func (p *QueuePublisher) publish(ctx context.Context, queue string, task interface{}) error {
	body, err := json.Marshal(task)
	if err != nil {
		return util.LogError("[QueuePublisher] ошибка сериализации задачи", err)
	}

	err = p.broker.Channel.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = имя очереди
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return util.LogError("[QueuePublisher] ошибка публикации в "+queue, err)
	}

	return nil
}

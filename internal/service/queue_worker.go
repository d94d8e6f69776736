package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/ports"
)

// QueueWorker : потребитель задач второй фазы. Сообщение, которое не
// удалось обработать, отклоняется без requeue — расхождения индекса
// чинит полная пересборка, потерянное письмо не критично.
type QueueWorker struct {
	broker       *config.QueueBroker
	dispatcher   ports.NotificationDispatcher
	search       ports.SearchService
	dbMiddleware func(ctx context.Context) context.Context
}

func NewQueueWorker(
	broker *config.QueueBroker,
	dispatcher ports.NotificationDispatcher,
	search ports.SearchService,
	db *config.Database,
) *QueueWorker {
	return &QueueWorker{
		broker:     broker,
		dispatcher: dispatcher,
		search:     search,
		dbMiddleware: func(ctx context.Context) context.Context {
			return context.WithValue(ctx, "db", db)
		},
	}
}

// Run : потребляет обе очереди до отмены контекста
func (w *QueueWorker) Run(ctx context.Context) error {
	if err := w.broker.Channel.Qos(50, 0, false); err != nil {
		log.Printf("[QueueWorker] не удалось установить QoS: %v", err)
	}

	notifications, err := w.broker.Channel.Consume(
		w.broker.Cfg.NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("[QueueWorker] ошибка подписки на очередь уведомлений: %w", err)
	}

	indexUpdates, err := w.broker.Channel.Consume(
		w.broker.Cfg.IndexQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("[QueueWorker] ошибка подписки на очередь индекса: %w", err)
	}

	log.Println("[QueueWorker] потребитель очередей запущен")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case delivery, ok := <-notifications:
			if ok == false {
				return fmt.Errorf("[QueueWorker] канал уведомлений закрыт")
			}
			w.handle(ctx, delivery, w.handleNotification)

		case delivery, ok := <-indexUpdates:
			if ok == false {
				return fmt.Errorf("[QueueWorker] канал индекса закрыт")
			}
			w.handle(ctx, delivery, w.handleIndexUpdate)
		}
	}
}

func (w *QueueWorker) handle(ctx context.Context, delivery amqp.Delivery, handler func(ctx context.Context, body []byte) error) {
	if err := handler(w.dbMiddleware(ctx), delivery.Body); err != nil {
		log.Printf("[QueueWorker] ошибка обработки сообщения: %v", err)
		_ = delivery.Nack(false, false) // без requeue, чтобы не зациклиться
		return
	}
	_ = delivery.Ack(false)
}

func (w *QueueWorker) handleNotification(ctx context.Context, body []byte) error {
	var task model.NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return fmt.Errorf("ошибка десериализации задачи уведомления: %w", err)
	}

	// Доставка best-effort, диспетчер сам логирует неудачи
	w.dispatcher.SendTask(ctx, &task)
	return nil
}

func (w *QueueWorker) handleIndexUpdate(ctx context.Context, body []byte) error {
	var task model.IndexTask
	if err := json.Unmarshal(body, &task); err != nil {
		return fmt.Errorf("ошибка десериализации задачи индекса: %w", err)
	}

	switch task.Action {
	case model.IndexActionUpsert:
		return w.search.SyncRequest(ctx, task.RequestID)
	case model.IndexActionDelete:
		return w.search.DeleteFromIndex(ctx, task.RequestID)
	}
	return fmt.Errorf("неизвестное действие индекса: %q", task.Action)
}

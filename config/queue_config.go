package config

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueBroker : соединение с RabbitMQ для задач второй фазы
// (уведомления, синхронизация поискового индекса)
type QueueBroker struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *QueueConfig
}

func NewQueueBroker(cfg *QueueConfig) (*QueueBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка открытия канала RabbitMQ: %w", err)
	}

	// durable очереди, объявление идемпотентно
	for _, queue := range []string{cfg.NotificationQueue, cfg.IndexQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("ошибка объявления очереди %s: %w", queue, err)
		}
	}

	log.Println("Подключение к RabbitMQ успешно выполнено")
	return &QueueBroker{Conn: conn, Channel: ch, Cfg: cfg}, nil
}

func (q *QueueBroker) Close() error {
	if err := q.Channel.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия канала RabbitMQ: %w", err)
	}
	if err := q.Conn.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия соединения с RabbitMQ: %w", err)
	}
	return nil
}

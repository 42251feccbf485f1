// Package rabbitmq реализует публикацию событий аудита действий
// администратора в RabbitMQ.
//
// Публикация работает по принципу fire-and-forget: ошибка публикации
// логируется вызывающей стороной и никогда не отменяет само действие.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

const auditExchange = "audit"

// Publisher публикует события аудита в выделенную очередь.
type Publisher struct {
	ch         *amqp.Channel
	routingKey string
}

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher объявляет exchange и очередь аудита и возвращает Publisher.
func NewPublisher(conn *amqp.Connection, queueName string) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		auditExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, queueName, err)
	}

	err = ch.QueueBind(
		queueName,
		queueName,
		auditExchange,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, queueName, err)
	}

	return &Publisher{ch: ch, routingKey: queueName}, nil
}

// Publish публикует событие аудита.
func (p *Publisher) Publish(event models.AuditEvent) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		auditExchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NoopPublisher заглушка на случай, когда очередь аудита не настроена.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(models.AuditEvent) error { return nil }

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facilitydesk/backend/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisher pushes report lifecycle events onto a RabbitMQ queue
// for the notification pipeline. It is optional: a nil publisher turns
// publishing into a no-op.
type EventPublisher struct {
	ch    *amqp.Channel
	queue string
}

// ConnectEventPublisher dials RabbitMQ and opens a channel for the
// given queue.
func ConnectEventPublisher(uri, queue string) (*EventPublisher, *amqp.Connection, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &EventPublisher{ch: ch, queue: queue}, conn, nil
}

// Publish sends one event as a persistent JSON message.
func (p *EventPublisher) Publish(event models.ReportEvent) error {
	_, err := p.ch.QueueDeclare(p.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

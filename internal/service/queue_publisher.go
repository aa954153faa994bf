package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venue-floor-planner/internal/queue"
)

// AMQPPublisher publishes reservation events to RabbitMQ. Each call dials
// the broker, declares the durable queue named by the event type and
// publishes a persistent JSON message. Errors are logged and returned so
// the caller can ignore them without failing the request.
type AMQPPublisher struct {
	URL    string
	Logger *log.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger *log.Logger) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Logger: logger}
}

// Publish sends ev to the queue named ev.Type.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ReservationEvent) error {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(ev.Type, true, false, false, false, nil); err != nil {
		logger.Warn("rabbitmq: queue declare failed", "queue", ev.Type, "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", ev.Type, false, false, pub); err != nil {
		logger.Warn("rabbitmq: publish failed", "queue", ev.Type, "err", err)
		return err
	}
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
)

// Publisher delivers reservation events.  Callers treat delivery as best
// effort: a failed publish is logged, never surfaced to the user.
type Publisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue.  It dials a
// fresh connection per event; mutations are rare enough that a pooled
// connection is not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	URL   string
	Queue string
	log   logger.Logger
}

// NewAMQPPublisher returns a publisher for url.  An empty queue name uses
// ReservationQueue.
func NewAMQPPublisher(url, queue string, log logger.Logger) *AMQPPublisher {
	if queue == "" {
		queue = ReservationQueue
	}
	return &AMQPPublisher{URL: url, Queue: queue, log: logger.OrNop(log)}
}

// Publish sends ev as a persistent JSON message on the default exchange
// with the queue name as routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Errorf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.log.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := declare(ch, p.Queue); err != nil {
		p.log.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.log.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// declare ensures the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
}

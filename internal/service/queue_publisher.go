// Package queue_publisher publishes panel audit events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request that triggered the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/sponsor-pass-manager/internal/queue"
)

// dialTimeout bounds how long a mutation waits for an unreachable broker.
const dialTimeout = 3 * time.Second

// Publisher sends PassEvents to the audit queue.  Each publish opens its
// own connection; audit traffic is a handful of messages per manager
// action.
type Publisher struct {
	URL string
}

// New returns a Publisher for the broker at url.
func New(url string) *Publisher {
	return &Publisher{URL: url}
}

// PublishPassEvent publishes event as a persistent JSON message on the
// audit queue, declaring the queue first (idempotent).
func (p *Publisher) PublishPassEvent(ctx context.Context, event q.PassEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.AuditQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.AuditQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

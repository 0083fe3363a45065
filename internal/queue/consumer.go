package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// auditLogFile is the file, inside the log directory, that audit lines are
// appended to.
const auditLogFile = "pass_audit.log"

// StartAuditConsumer connects to RabbitMQ, declares the audit queue
// (durable) and appends one line per PassEvent to logDir/pass_audit.log.
// It reconnects with exponential backoff and only returns once ctx is done.
// Messages that cannot be handled are rejected without requeue so a bad
// payload cannot loop forever.
func StartAuditConsumer(ctx context.Context, url, logDir string) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(AuditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(AuditQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(logDir, d.Body); err != nil {
				log.Printf("audit-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(logDir string, body []byte) error {
	var ev PassEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type != PassCreated && ev.Type != PassRevoked {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, auditLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as a single newline-terminated log line.
func FormatAuditLine(ev PassEvent) string {
	expires := "never"
	if ev.ExpiresAt != nil {
		expires = *ev.ExpiresAt
	}
	switch ev.Type {
	case PassCreated:
		return fmt.Sprintf("[%s] Pass created | event_id=%s | pass_id=%d | sponsor_id=%d | holder=%q | email=%q | expires=%s | manager=%s\n",
			ev.OccurredAt, ev.EventID, ev.PassID, ev.SponsorID, ev.HolderName, ev.Email, expires, ev.ManagerID)
	default:
		return fmt.Sprintf("[%s] Pass revoked | event_id=%s | pass_id=%d | sponsor_id=%d | holder=%q | manager=%s\n",
			ev.OccurredAt, ev.EventID, ev.PassID, ev.SponsorID, ev.HolderName, ev.ManagerID)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

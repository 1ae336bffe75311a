package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
)

// AuditConsumer appends every ReservationEvent from the queue to a log
// file, one line per event.
type AuditConsumer struct {
	URL   string
	Queue string
	Path  string
	log   logger.Logger
}

func NewAuditConsumer(url, queue, path string, log logger.Logger) *AuditConsumer {
	if queue == "" {
		queue = ReservationQueue
	}
	if path == "" {
		path = filepath.Join("logs", "reservations.log")
	}
	return &AuditConsumer{URL: url, Queue: queue, Path: path, log: logger.OrNop(log)}
}

// Run connects to the broker and consumes until ctx is cancelled.  Broken
// connections are redialled with exponential backoff capped at 30s.
func (c *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.log.Warnf("audit-consumer: dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warnf("audit-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warnf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := declare(ch, c.Queue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
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
			if err := c.Handle(d.Body); err != nil {
				c.log.Errorf("audit-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // reject without requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and appends its audit line to Path.
func (c *AuditConsumer) Handle(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
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
func FormatAuditLine(ev ReservationEvent) string {
	r := ev.Reservation
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Reservation %s | id=%s | slot=%s %s", ev.OccurredAt, ev.Type, r.ID, r.Date, r.Time)
	if ev.PreviousSlot != nil && *ev.PreviousSlot != r.Slot() {
		fmt.Fprintf(&b, " | from=%s %s", ev.PreviousSlot.Date, ev.PreviousSlot.Time)
	}
	fmt.Fprintf(&b, " | requester=%q <%s> | block=%t", r.RequesterName, r.RequesterEmail, r.IsAdministrativeBlock)
	actor := string(ev.ActorRole)
	if ev.ActorEmail != "" {
		actor += ":" + ev.ActorEmail
	}
	fmt.Fprintf(&b, " | actor=%s\n", actor)
	return b.String()
}

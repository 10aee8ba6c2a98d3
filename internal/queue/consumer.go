// Package queue contains the consumer that listens to the ticket events
// queue and writes one line per event to a log file.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer appends ticket events from Queue to LogPath.
type Consumer struct {
	URL     string
	Queue   string
	LogPath string
	Log     *zap.Logger
}

// Run connects to the broker, declares the queue (durable) and consumes
// until ctx is cancelled. It runs a reconnect loop with capped backoff; each
// message that cannot be handled is rejected without requeue so the loop
// keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("consume loop ended, reconnecting", zap.Error(err))
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

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("set QoS failed", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		line, err := FormatLine(d.Type, d.Body)
		if err == nil {
			err = c.appendLine(line)
		}
		if err != nil {
			c.Log.Error("handle message failed", zap.String("type", d.Type), zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) appendLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders one event as a single human-friendly log line.
func FormatLine(eventType string, body []byte) (string, error) {
	switch eventType {
	case TypeTicketIssued:
		var ev TicketIssuedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Ticket issued | ticket_id=%d | customer_id=%d | customer=%q | movie=%q | starts_at=%s | seats=%d | total=%s | by=%s\n",
			ev.IssuedAt, ev.TicketID, ev.CustomerID, ev.CustomerName, ev.Movie, ev.StartsAt, ev.Seats, ev.TotalAmount, ev.IssuedBy), nil
	case TypeTicketCancelled:
		var ev TicketCancelledEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Ticket cancelled | ticket_id=%d | by=%s\n", ev.CancelledAt, ev.TicketID, ev.CancelledBy), nil
	}
	return "", fmt.Errorf("unknown event type %q", eventType)
}

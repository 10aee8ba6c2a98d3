// Package service publishes ticket events to RabbitMQ. Errors are logged and
// returned so the caller can ignore them without interrupting the operator.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/model"
	q "github.com/iliyamo/cinema-console/internal/queue"
)

// TimeLayout formats screening start times in events.
const TimeLayout = "2006-01-02 15:04"

// AMQPPublisher dials the broker per publish. Ticket events are rare enough
// that a long-lived connection is not worth its reconnect handling.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger
	now   func() time.Time
}

// NewAMQPPublisher returns a publisher for queue on the broker at url.
func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	if queue == "" {
		queue = "tickets.events"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{url: url, queue: queue, log: log.Named("queue"), now: time.Now}
}

// IssuedEvent builds the payload announcing receipt.
func IssuedEvent(r model.Receipt, issuedBy string, at time.Time) q.TicketIssuedEvent {
	return q.TicketIssuedEvent{
		TicketID:      r.TicketID,
		CustomerID:    r.Customer.ID,
		CustomerName:  strings.TrimSpace(r.Customer.Name + " " + r.Customer.Surname),
		CustomerEmail: r.Customer.Email,
		Movie:         r.Movie(),
		StartsAt:      r.StartTime.Format(TimeLayout),
		Seats:         r.Seats,
		TotalAmount:   r.Total.String(),
		IssuedBy:      issuedBy,
		IssuedAt:      at.UTC().Format(time.RFC3339),
	}
}

// TicketIssued publishes a TicketIssuedEvent.
func (p *AMQPPublisher) TicketIssued(ctx context.Context, r model.Receipt, issuedBy string) error {
	return p.publish(ctx, q.TypeTicketIssued, IssuedEvent(r, issuedBy, p.now()))
}

// TicketCancelled publishes a TicketCancelledEvent.
func (p *AMQPPublisher) TicketCancelled(ctx context.Context, ticketID int64, cancelledBy string) error {
	return p.publish(ctx, q.TypeTicketCancelled, q.TicketCancelledEvent{
		TicketID:    ticketID,
		CancelledBy: cancelledBy,
		CancelledAt: p.now().UTC().Format(time.RFC3339),
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, eventType string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    uuid.NewString(),
		Type:         eventType,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Warn("publish failed", zap.String("type", eventType), zap.Error(err))
		return err
	}
	p.log.Debug("event published", zap.String("type", eventType), zap.String("message_id", pub.MessageId))
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) TicketIssued(context.Context, model.Receipt, string) error { return nil }

func (NopPublisher) TicketCancelled(context.Context, int64, string) error { return nil }

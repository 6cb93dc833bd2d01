// Package statuschanged publishes committed status ledger entries to Kafka,
// one message per entry keyed by the fulfillment order id so that a
// partition keeps the entries of an order in ledger order.
package statuschanged

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/pkg/resilience"

	"github.com/segmentio/kafka-go"
)

// EventType is sent in the ce-type header of every message.
const EventType = "fulfillment.status_changed"

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON value of a published entry.
type Message struct {
	EventID        string         `json:"event_id"`
	OrderID        string         `json:"order_id"`
	Status         string         `json:"status"`
	PreviousStatus *string        `json:"previous_status"`
	ChangedBy      *string        `json:"changed_by"`
	Notes          *string        `json:"notes,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ChangedAt      time.Time      `json:"changed_at"`
}

// Publisher implements ports.StatusChangeNotifier on top of a Kafka writer
// guarded by a circuit breaker.
type Publisher struct {
	writer  MessageWriter
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

// NewWriter builds a synchronous writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
}

func NewPublisher(writer MessageWriter, breaker *resilience.CircuitBreaker, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer:  writer,
		breaker: breaker,
		logger:  logger.With("component", "status_changed_publisher"),
	}
}

// NotifyStatusChanged writes all entries in one batch.
func (p *Publisher) NotifyStatusChanged(ctx context.Context, changes []*fulfillment.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(changes))
	for _, c := range changes {
		msg, err := toKafkaMessage(c)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	err := p.breaker.Execute(func() error {
		return p.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("publish %d status changes: %w", len(msgs), err)
	}

	p.logger.DebugContext(ctx, "status changes published", "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toKafkaMessage(c *fulfillment.StatusChange) (kafka.Message, error) {
	m := Message{
		EventID:   c.ID().String(),
		OrderID:   c.OrderID().String(),
		Status:    c.Status().String(),
		ChangedBy: c.ChangedBy(),
		Notes:     c.Notes(),
		Metadata:  c.Metadata(),
		ChangedAt: c.ChangedAt(),
	}
	if prev := c.PreviousStatus(); prev != nil {
		s := prev.String()
		m.PreviousStatus = &s
	}

	data, err := json.Marshal(m)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal status change %s: %w", m.EventID, err)
	}

	return kafka.Message{
		Key:   []byte(m.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(EventType)},
			{Key: "ce-id", Value: []byte(m.EventID)},
			{Key: "ce-time", Value: []byte(m.ChangedAt.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: m.ChangedAt,
	}, nil
}

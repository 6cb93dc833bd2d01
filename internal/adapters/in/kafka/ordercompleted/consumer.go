// Package ordercompleted consumes "order completed" events from Kafka and
// opens a fulfillment order for each of them.
//
// Offsets are committed once a message has been dealt with for good: the
// order was created, the event is a redelivery (the order already exists),
// or the event can never succeed (unparsable, unknown or unfinished source
// order, invalid fields). Any other failure is retried with backoff on the
// same message. The partition does not advance past it, since committing a
// later offset would acknowledge it too.
package ordercompleted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

// Outcomes reported to the OutcomeRecorder.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CreateHandler opens the fulfillment order.
type CreateHandler interface {
	Handle(ctx context.Context, cmd commands.CreateFulfillmentOrderCommand) (fulfillment.OrderDetails, error)
}

// OutcomeRecorder counts processed events.
type OutcomeRecorder interface {
	ObserveOrderEvent(outcome string)
}

// Event is the JSON value of an order completed message. Only order_id is
// required.
type Event struct {
	OrderID               string     `json:"order_id"`
	Priority              string     `json:"priority"`
	AssignedTo            *string    `json:"assigned_to"`
	Instructions          *string    `json:"instructions"`
	EstimatedPickDate     *time.Time `json:"estimated_pick_date"`
	EstimatedShipDate     *time.Time `json:"estimated_ship_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

const (
	defaultRetryDelay    = 500 * time.Millisecond
	defaultMaxRetryDelay = 30 * time.Second
)

type Consumer struct {
	reader        MessageReader
	handler       CreateHandler
	recorder      OutcomeRecorder
	logger        *slog.Logger
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

type Option func(*Consumer)

// WithRetryBackoff sets the first and the largest delay between attempts at
// a failed message.
func WithRetryBackoff(initial, maxDelay time.Duration) Option {
	return func(c *Consumer) {
		c.retryDelay = initial
		c.maxRetryDelay = maxDelay
	}
}

// NewReader builds a consumer-group reader for topic.
func NewReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}

func NewConsumer(
	reader MessageReader,
	handler CreateHandler,
	recorder OutcomeRecorder,
	logger *slog.Logger,
	opts ...Option,
) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{
		reader:        reader,
		handler:       handler,
		recorder:      recorder,
		logger:        logger.With("component", "order_completed_consumer"),
		retryDelay:    defaultRetryDelay,
		maxRetryDelay: defaultMaxRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes messages until ctx is cancelled and then returns nil.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "order completed consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfoContext(ctx, "order completed consumer stopped")
				return nil
			}
			c.logger.ErrorContext(ctx, "fetch message failed", "error", err)
			continue
		}

		if !c.processUntilDone(ctx, msg) {
			c.logger.InfoContext(ctx, "order completed consumer stopped")
			return nil
		}
		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, "commit message failed",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// processUntilDone retries msg until it may be committed. It returns false
// when ctx ends first.
func (c *Consumer) processUntilDone(ctx context.Context, msg kafka.Message) bool {
	delay := c.retryDelay
	for !c.process(ctx, msg) {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, c.maxRetryDelay)
	}
	return true
}

// process handles one message and reports whether its offset may be
// committed.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	log := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

	cmd, err := decode(msg.Value)
	if err != nil {
		log.WarnContext(ctx, "dropping malformed order completed event", "error", err)
		c.observe(OutcomeMalformed)
		return true
	}

	details, err := c.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		log.InfoContext(ctx, "fulfillment order created",
			"source_order_id", cmd.SourceOrderID().String(),
			"fulfillment_number", details.Order.Number(),
		)
		c.observe(OutcomeCreated)
		return true
	case errors.Is(err, errs.ErrConflict):
		log.InfoContext(ctx, "fulfillment order already exists",
			"source_order_id", cmd.SourceOrderID().String(),
		)
		c.observe(OutcomeDuplicate)
		return true
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, errs.ErrInvalidState), errs.IsValidation(err):
		log.WarnContext(ctx, "order completed event rejected",
			"source_order_id", cmd.SourceOrderID().String(),
			"error", err,
		)
		c.observe(OutcomeRejected)
		return true
	default:
		log.ErrorContext(ctx, "order completed event failed, retrying",
			"source_order_id", cmd.SourceOrderID().String(),
			"error", err,
		)
		c.observe(OutcomeFailed)
		return false
	}
}

func (c *Consumer) observe(outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveOrderEvent(outcome)
	}
}

func decode(value []byte) (commands.CreateFulfillmentOrderCommand, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return commands.CreateFulfillmentOrderCommand{}, fmt.Errorf("unmarshal event: %w", err)
	}

	sourceOrderID, err := kernel.UUIDFromString(e.OrderID)
	if err != nil {
		return commands.CreateFulfillmentOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("order_id", err)
	}

	return commands.NewCreateFulfillmentOrderCommand(
		sourceOrderID,
		e.Priority,
		e.AssignedTo,
		e.Instructions,
		fulfillment.Schedule{
			EstimatedPickDate:     e.EstimatedPickDate,
			EstimatedShipDate:     e.EstimatedShipDate,
			EstimatedDeliveryDate: e.EstimatedDeliveryDate,
		},
	)
}

package commands

import (
	"errors"
	"maps"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateFulfillmentStatusCommandIsNotConstructed = errors.New(
	"UpdateFulfillmentStatusCommand must be created via NewUpdateFulfillmentStatusCommand constructor",
)

// UpdateFulfillmentStatusCommand sets an order's status explicitly, for
// example to mark it delivered or cancelled.
type UpdateFulfillmentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	status    fulfillment.Status
	notes     *string
	metadata  map[string]any
	changedBy *string

	guard guard.ConstructorGuard
}

func NewUpdateFulfillmentStatusCommand(
	orderID kernel.UUID,
	status string,
	notes *string,
	metadata map[string]any,
	changedBy *string,
) (UpdateFulfillmentStatusCommand, error) {
	cmd := UpdateFulfillmentStatusCommand{
		notes:     trimmedOrNil(notes),
		metadata:  maps.Clone(metadata),
		changedBy: trimmedOrNil(changedBy),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateFulfillmentStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateFulfillmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateFulfillmentStatusCommandIsNotConstructed)
}

func (c UpdateFulfillmentStatusCommand) OrderID() kernel.UUID       { return c.orderID }
func (c UpdateFulfillmentStatusCommand) Status() fulfillment.Status { return c.status }
func (c UpdateFulfillmentStatusCommand) Notes() *string             { return c.notes }
func (c UpdateFulfillmentStatusCommand) Metadata() map[string]any   { return maps.Clone(c.metadata) }
func (c UpdateFulfillmentStatusCommand) ChangedBy() *string         { return c.changedBy }

func (c *UpdateFulfillmentStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *UpdateFulfillmentStatusCommand) setStatus(status string) error {
	s, err := fulfillment.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}

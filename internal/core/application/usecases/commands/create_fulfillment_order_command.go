package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateFulfillmentOrderCommandIsNotConstructed = errors.New(
	"CreateFulfillmentOrderCommand must be created via NewCreateFulfillmentOrderCommand constructor",
)

// CreateFulfillmentOrderCommand asks for a fulfillment order to be opened for
// a completed source order.
//
// Example:
//
//	assignee := "team-vault"
//	cmd, err := NewCreateFulfillmentOrderCommand(sourceOrderID, "high", &assignee, nil, fulfillment.Schedule{})
//	if err != nil {
//	    return err
//	}
//	details, err := handler.Handle(ctx, cmd)
type CreateFulfillmentOrderCommand struct { //nolint:recvcheck //using for validation
	sourceOrderID kernel.UUID
	priority      fulfillment.Priority
	assignedTo    *string
	instructions  *string
	schedule      fulfillment.Schedule

	guard guard.ConstructorGuard
}

// NewCreateFulfillmentOrderCommand validates its arguments. An empty
// priority means normal.
func NewCreateFulfillmentOrderCommand(
	sourceOrderID kernel.UUID,
	priority string,
	assignedTo *string,
	instructions *string,
	schedule fulfillment.Schedule,
) (CreateFulfillmentOrderCommand, error) {
	cmd := CreateFulfillmentOrderCommand{
		assignedTo:   trimmedOrNil(assignedTo),
		instructions: trimmedOrNil(instructions),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSourceOrderID(sourceOrderID),
		cmd.setPriority(priority),
		cmd.setSchedule(schedule),
	); err != nil {
		return CreateFulfillmentOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateFulfillmentOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateFulfillmentOrderCommandIsNotConstructed)
}

func (c CreateFulfillmentOrderCommand) SourceOrderID() kernel.UUID     { return c.sourceOrderID }
func (c CreateFulfillmentOrderCommand) Priority() fulfillment.Priority { return c.priority }
func (c CreateFulfillmentOrderCommand) AssignedTo() *string            { return c.assignedTo }
func (c CreateFulfillmentOrderCommand) Instructions() *string          { return c.instructions }
func (c CreateFulfillmentOrderCommand) Schedule() fulfillment.Schedule { return c.schedule }

func (c *CreateFulfillmentOrderCommand) setSourceOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.sourceOrderID = id
	return nil
}

func (c *CreateFulfillmentOrderCommand) setPriority(priority string) error {
	if strings.TrimSpace(priority) == "" {
		c.priority = fulfillment.PriorityNormal
		return nil
	}
	p, err := fulfillment.ParsePriority(priority)
	if err != nil {
		return err
	}
	c.priority = p
	return nil
}

func (c *CreateFulfillmentOrderCommand) setSchedule(s fulfillment.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.schedule = s
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

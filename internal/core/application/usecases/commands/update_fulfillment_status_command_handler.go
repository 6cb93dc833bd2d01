package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
)

// UpdateFulfillmentStatusCommandHandler applies a manual status change under
// the configured transition policy. Every accepted change writes a ledger
// entry.
type UpdateFulfillmentStatusCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	policy     fulfillment.Policy
}

func NewUpdateFulfillmentStatusCommandHandler(
	uowFactory FulfillmentUoWFactory,
	policy fulfillment.Policy,
) UpdateFulfillmentStatusCommandHandler {
	return UpdateFulfillmentStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h UpdateFulfillmentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateFulfillmentStatusCommand,
) (fulfillment.OrderDetails, error) {
	if err := cmd.Validate(); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fulfillment.OrderDetails{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.FulfillmentOrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	err = o.ChangeStatus(h.policy.Transitions, fulfillment.StatusUpdate{
		Status:    cmd.Status(),
		Notes:     cmd.Notes(),
		Metadata:  cmd.Metadata(),
		ChangedBy: cmd.ChangedBy(),
	}, time.Now().UTC())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	if err = saveOrder(ctx, uow, o); err != nil {
		return fulfillment.OrderDetails{}, err
	}
	history, err := uow.StatusLedger().ListByOrder(ctx, o.ID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	return fulfillment.OrderDetails{Order: o, History: history}, nil
}

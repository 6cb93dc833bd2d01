package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/services"
)

// PickItemCommandHandler sets an item's picked quantity and lets the status
// rollup advance the order. The owning order row stays locked for the whole
// transaction, so concurrent picks on the same order are serialised.
type PickItemCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	rollup     services.StatusRollup
}

func NewPickItemCommandHandler(uowFactory FulfillmentUoWFactory, rollup services.StatusRollup) PickItemCommandHandler {
	return PickItemCommandHandler{
		uowFactory: uowFactory,
		rollup:     rollup,
	}
}

func (h PickItemCommandHandler) Handle(ctx context.Context, cmd PickItemCommand) (*fulfillment.Item, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.FulfillmentOrderRepository().GetByItemForUpdate(ctx, cmd.ItemID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item, err := o.PickItem(cmd.ItemID(), fulfillment.PickInput{
		Quantity: cmd.Quantity(),
		PickedBy: cmd.PickedBy(),
		Location: cmd.Location(),
		Notes:    cmd.Notes(),
	}, now)
	if err != nil {
		return nil, err
	}
	if _, err = h.rollup.Recompute(o, now); err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, uow, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return item, nil
}

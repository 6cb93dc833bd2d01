package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/services"
)

// PackItemCommandHandler sets an item's packed quantity and runs the rollup.
type PackItemCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	rollup     services.StatusRollup
}

func NewPackItemCommandHandler(uowFactory FulfillmentUoWFactory, rollup services.StatusRollup) PackItemCommandHandler {
	return PackItemCommandHandler{
		uowFactory: uowFactory,
		rollup:     rollup,
	}
}

func (h PackItemCommandHandler) Handle(ctx context.Context, cmd PackItemCommand) (*fulfillment.Item, error) {
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
	item, err := o.PackItem(cmd.ItemID(), fulfillment.PackInput{
		Quantity: cmd.Quantity(),
		PackedBy: cmd.PackedBy(),
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

package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/ports"
)

// GetFulfillmentOrderQueryHandler reads the order, its items, packages and
// ledger inside one read-only snapshot transaction. It takes no row locks.
type GetFulfillmentOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetFulfillmentOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetFulfillmentOrderQueryHandler {
	return GetFulfillmentOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound for an unknown order.
func (h GetFulfillmentOrderQueryHandler) Handle(
	ctx context.Context,
	query GetFulfillmentOrderQuery,
) (fulfillment.OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.BeginReadOnly(ctx); err != nil {
		return fulfillment.OrderDetails{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.FulfillmentOrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	history, err := uow.StatusLedger().ListByOrder(ctx, o.ID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	return fulfillment.OrderDetails{Order: o, History: history}, nil
}

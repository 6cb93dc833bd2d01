package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
)

// saveOrder writes the aggregate and appends the status changes it recorded.
func saveOrder(ctx context.Context, uow FulfillmentUoW, o *fulfillment.Order) error {
	if err := uow.FulfillmentOrderRepository().Update(ctx, o); err != nil {
		return err
	}

	changes := o.PullStatusChanges()
	if len(changes) == 0 {
		return nil
	}
	return uow.StatusLedger().Append(ctx, changes...)
}

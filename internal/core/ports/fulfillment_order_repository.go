package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// FulfillmentOrderRepository persists fulfillment order aggregates together
// with their items and packages.
type FulfillmentOrderRepository interface {
	// Add inserts a new order with its items. A second order for the same
	// source order fails with errs.ErrConflict.
	Add(ctx context.Context, aggregate *fulfillment.Order) error

	// Update writes the order row, its items and any new packages.
	Update(ctx context.Context, aggregate *fulfillment.Order) error

	// Get loads an order without locking it. Missing orders yield
	// errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error)

	// GetForUpdate loads an order and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error)

	// GetByItemForUpdate locks and loads the order that owns itemID.
	GetByItemForUpdate(ctx context.Context, itemID kernel.UUID) (*fulfillment.Order, error)

	// ExistsForSourceOrder reports whether an order already references the
	// given source order.
	ExistsForSourceOrder(ctx context.Context, sourceOrderID kernel.UUID) (bool, error)
}

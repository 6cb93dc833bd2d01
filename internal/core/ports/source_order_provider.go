package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// SourceOrderStatusCompleted is the sales order status that allows a
// fulfillment order to be created.
const SourceOrderStatusCompleted = "completed"

// SourceOrder is the read-only view of a sales order owned by another module.
type SourceOrder struct {
	ID     kernel.UUID
	Status string
	Lines  []SourceOrderLine
}

// SourceOrderLine is one line of a SourceOrder.
type SourceOrderLine struct {
	ProductRef string
	Quantity   int
	UnitPrice  float64
}

// IsCompleted reports whether the sales order may be fulfilled.
func (o SourceOrder) IsCompleted() bool {
	return o.Status == SourceOrderStatusCompleted
}

// SourceOrderProvider reads sales orders. Missing orders yield
// errs.ErrObjectNotFound; any other error is a dependency failure.
type SourceOrderProvider interface {
	Get(ctx context.Context, id kernel.UUID) (SourceOrder, error)
}

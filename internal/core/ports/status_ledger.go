package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// StatusLedger is the append-only audit trail of status changes.
type StatusLedger interface {
	// Append stores entries in the given order. Entries are never updated.
	Append(ctx context.Context, changes ...*fulfillment.StatusChange) error

	// ListByOrder returns every entry of an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*fulfillment.StatusChange, error)
}

// StatusChangeNotifier is told about ledger entries once their transaction
// has committed. Failures never undo the commit.
type StatusChangeNotifier interface {
	NotifyStatusChanged(ctx context.Context, changes []*fulfillment.StatusChange) error
}

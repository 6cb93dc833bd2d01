package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// SequenceGenerator allocates human-readable numbers. Numbers are unique
// under concurrent callers and allocated inside the caller's transaction, so
// an aborted operation leaves no numbered record behind.
type SequenceGenerator interface {
	NextFulfillmentNumber(ctx context.Context) (string, error)
	NextPackageNumber(ctx context.Context, orderID kernel.UUID) (string, error)
}

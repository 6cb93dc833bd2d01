package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFulfillmentStatsQueryIsNotConstructed = errors.New(
	"GetFulfillmentStatsQuery must be created via NewGetFulfillmentStatsQuery constructor",
)

// GetFulfillmentStatsQuery reports order counts and delivery performance.
type GetFulfillmentStatsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetFulfillmentStatsQuery() GetFulfillmentStatsQuery {
	return GetFulfillmentStatsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetFulfillmentStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentStatsQueryIsNotConstructed)
}

// FulfillmentStats summarises every fulfillment order.
//
// AverageFulfillmentDays is the mean time from creation to delivery over
// delivered orders. OnTimeDeliveryRate is the share of delivered orders with
// an estimated delivery date that arrived on or before that day. Both are
// nil when no order qualifies.
type FulfillmentStats struct {
	TotalOrders            int64
	CountsByStatus         map[fulfillment.Status]int64
	AverageFulfillmentDays *float64
	OnTimeDeliveryRate     *float64
}

// Package queries contains the read operations of the fulfillment service.
// Aggregate reads go through the repositories; list and reporting queries
// run SQL directly against the tables.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFulfillmentOrderQueryIsNotConstructed = errors.New(
	"GetFulfillmentOrderQuery must be created via NewGetFulfillmentOrderQuery constructor",
)

// GetFulfillmentOrderQuery loads one order with its items, packages and
// status history.
type GetFulfillmentOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetFulfillmentOrderQuery(orderID kernel.UUID) (GetFulfillmentOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetFulfillmentOrderQuery{}, err
	}
	return GetFulfillmentOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFulfillmentOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentOrderQueryIsNotConstructed)
}

func (q GetFulfillmentOrderQuery) OrderID() kernel.UUID { return q.orderID }

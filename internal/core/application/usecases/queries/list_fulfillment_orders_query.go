package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var ErrListFulfillmentOrdersQueryIsNotConstructed = errors.New(
	"ListFulfillmentOrdersQuery must be created via NewListFulfillmentOrdersQuery constructor",
)

// ListFilter narrows ListFulfillmentOrdersQuery. Empty fields do not filter.
type ListFilter struct {
	Status      string
	Priority    string
	AssignedTo  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ListFulfillmentOrdersQuery pages through orders, newest first.
//
// Example:
//
//	query, err := NewListFulfillmentOrdersQuery(ListFilter{Status: "picking"}, 50, 0)
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d orders\n", len(page.Items), page.Total)
type ListFulfillmentOrdersQuery struct { //nolint:recvcheck //using for validation
	status      *fulfillment.Status
	priority    *fulfillment.Priority
	assignedTo  *string
	createdFrom *time.Time
	createdTo   *time.Time
	limit       int
	offset      int

	guard guard.ConstructorGuard
}

// NewListFulfillmentOrdersQuery validates the filter. A zero limit means
// DefaultListLimit and larger limits are capped at MaxListLimit.
func NewListFulfillmentOrdersQuery(filter ListFilter, limit, offset int) (ListFulfillmentOrdersQuery, error) {
	q := ListFulfillmentOrdersQuery{
		createdFrom: filter.CreatedFrom,
		createdTo:   filter.CreatedTo,
		guard:       guard.NewConstructorGuard(),
	}
	if v := strings.TrimSpace(filter.AssignedTo); v != "" {
		q.assignedTo = &v
	}

	if err := errors.Join(
		q.setStatus(filter.Status),
		q.setPriority(filter.Priority),
		q.setRange(filter.CreatedFrom, filter.CreatedTo),
		q.setPage(limit, offset),
	); err != nil {
		return ListFulfillmentOrdersQuery{}, err
	}
	return q, nil
}

func (q ListFulfillmentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListFulfillmentOrdersQueryIsNotConstructed)
}

func (q ListFulfillmentOrdersQuery) Status() *fulfillment.Status     { return q.status }
func (q ListFulfillmentOrdersQuery) Priority() *fulfillment.Priority { return q.priority }
func (q ListFulfillmentOrdersQuery) AssignedTo() *string             { return q.assignedTo }
func (q ListFulfillmentOrdersQuery) CreatedFrom() *time.Time         { return q.createdFrom }
func (q ListFulfillmentOrdersQuery) CreatedTo() *time.Time           { return q.createdTo }
func (q ListFulfillmentOrdersQuery) Limit() int                      { return q.limit }
func (q ListFulfillmentOrdersQuery) Offset() int                     { return q.offset }

func (q *ListFulfillmentOrdersQuery) setStatus(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	status, err := fulfillment.ParseStatus(s)
	if err != nil {
		return err
	}
	q.status = &status
	return nil
}

func (q *ListFulfillmentOrdersQuery) setPriority(p string) error {
	if strings.TrimSpace(p) == "" {
		return nil
	}
	priority, err := fulfillment.ParsePriority(p)
	if err != nil {
		return err
	}
	q.priority = &priority
	return nil
}

func (q *ListFulfillmentOrdersQuery) setRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return errs.NewValueIsInvalidErrorWithCause("createdFrom",
			fmt.Errorf("%s is after createdTo %s", from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}
	return nil
}

func (q *ListFulfillmentOrdersQuery) setPage(limit, offset int) error {
	var errList []error
	if limit < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is negative", limit)))
	}
	if offset < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("offset", fmt.Errorf("%d is negative", offset)))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	switch {
	case limit == 0:
		q.limit = DefaultListLimit
	case limit > MaxListLimit:
		q.limit = MaxListLimit
	default:
		q.limit = limit
	}
	q.offset = offset
	return nil
}

// FulfillmentOrderSummary is one row of the order list.
type FulfillmentOrderSummary struct {
	ID                kernel.UUID
	Number            string
	SourceOrderID     kernel.UUID
	Status            fulfillment.Status
	Priority          fulfillment.Priority
	AssignedTo        *string
	EstimatedShipDate *time.Time
	ItemCount         int
	QuantityOrdered   int
	QuantityPicked    int
	QuantityPacked    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ListFulfillmentOrdersQueryResponse is one page plus the number of orders
// matching the filter.
type ListFulfillmentOrdersQueryResponse struct {
	Items  []FulfillmentOrderSummary
	Total  int64
	Limit  int
	Offset int
}

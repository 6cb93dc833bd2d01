package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateFulfillmentOrderCommandHandler opens a fulfillment order for a
// completed source order.
//
// Failure modes:
//   - errs.ErrObjectNotFound when the source order does not exist
//   - errs.ErrInvalidState when it is not completed
//   - errs.ErrConflict when a fulfillment order already references it
//   - errs.ErrValueIsRequired / errs.ErrValueIsInvalid for a source order without usable lines
//   - errs.ErrDependency when the source order provider or the sequence generator fails
type CreateFulfillmentOrderCommandHandler struct {
	uowFactory   NumberingUoWFactory
	sourceOrders ports.SourceOrderProvider
}

func NewCreateFulfillmentOrderCommandHandler(
	uowFactory NumberingUoWFactory,
	sourceOrders ports.SourceOrderProvider,
) CreateFulfillmentOrderCommandHandler {
	return CreateFulfillmentOrderCommandHandler{
		uowFactory:   uowFactory,
		sourceOrders: sourceOrders,
	}
}

// Handle creates the order, one item per source line and the initial
// pending ledger entry in a single transaction.
func (h CreateFulfillmentOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CreateFulfillmentOrderCommand,
) (fulfillment.OrderDetails, error) {
	if err := cmd.Validate(); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	source, err := h.sourceOrders.Get(ctx, cmd.SourceOrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return fulfillment.OrderDetails{}, err
		}
		return fulfillment.OrderDetails{}, errs.NewDependencyErrorWithCause("source order provider", err)
	}
	if !source.IsCompleted() {
		return fulfillment.OrderDetails{}, errs.NewInvalidStateError("source order", source.Status)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return fulfillment.OrderDetails{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.FulfillmentOrderRepository()
	exists, err := repo.ExistsForSourceOrder(ctx, cmd.SourceOrderID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}
	if exists {
		return fulfillment.OrderDetails{}, errs.NewConflictError("fulfillment order for source order", cmd.SourceOrderID())
	}

	number, err := uow.SequenceGenerator().NextFulfillmentNumber(ctx)
	if err != nil {
		return fulfillment.OrderDetails{}, errs.NewDependencyErrorWithCause("sequence generator", err)
	}

	lines := make([]fulfillment.Line, 0, len(source.Lines))
	for _, l := range source.Lines {
		lines = append(lines, fulfillment.Line{ProductRef: l.ProductRef, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	o, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
		ID:            kernel.NewUUID(),
		Number:        number,
		SourceOrderID: cmd.SourceOrderID(),
		Priority:      cmd.Priority(),
		AssignedTo:    cmd.AssignedTo(),
		Instructions:  cmd.Instructions(),
		Schedule:      cmd.Schedule(),
		Lines:         lines,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	if err = repo.Add(ctx, o); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	ledger := uow.StatusLedger()
	if err = ledger.Append(ctx, o.PullStatusChanges()...); err != nil {
		return fulfillment.OrderDetails{}, err
	}
	history, err := ledger.ListByOrder(ctx, o.ID())
	if err != nil {
		return fulfillment.OrderDetails{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return fulfillment.OrderDetails{}, err
	}

	return fulfillment.OrderDetails{Order: o, History: history}, nil
}

package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ShipPackageCommandHandler creates the shipping package, copies the
// shipping details onto the order and moves it to shipped. The package
// number is allocated inside the transaction only after every precondition
// holds, so a rejected shipment consumes no number.
type ShipPackageCommandHandler struct {
	uowFactory NumberingUoWFactory
	policy     fulfillment.Policy
}

func NewShipPackageCommandHandler(uowFactory NumberingUoWFactory, policy fulfillment.Policy) ShipPackageCommandHandler {
	return ShipPackageCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h ShipPackageCommandHandler) Handle(ctx context.Context, cmd ShipPackageCommand) (*fulfillment.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.FulfillmentOrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.CanShip(h.policy, cmd.Shipment()); err != nil {
		return nil, err
	}

	number, err := uow.SequenceGenerator().NextPackageNumber(ctx, o.ID())
	if err != nil {
		return nil, errs.NewDependencyErrorWithCause("sequence generator", err)
	}

	pkg, err := o.Ship(h.policy, cmd.Shipment(), kernel.NewUUID(), number, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, uow, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pkg, nil
}

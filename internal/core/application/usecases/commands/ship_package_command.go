package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrShipPackageCommandIsNotConstructed = errors.New(
	"ShipPackageCommand must be created via NewShipPackageCommand constructor",
)

// ShipPackageCommand hands an order to a carrier.
//
// Example:
//
//	weight := 0.4
//	cmd, err := NewShipPackageCommand(orderID, fulfillment.ShipmentInput{
//	    Carrier:        "ups",
//	    Method:         "ground",
//	    TrackingNumber: "1Z999",
//	    Weight:         &weight,
//	})
type ShipPackageCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	shipment fulfillment.ShipmentInput

	guard guard.ConstructorGuard
}

func NewShipPackageCommand(orderID kernel.UUID, shipment fulfillment.ShipmentInput) (ShipPackageCommand, error) {
	cmd := ShipPackageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setShipment(shipment),
	); err != nil {
		return ShipPackageCommand{}, err
	}

	return cmd, nil
}

func (c ShipPackageCommand) Validate() error {
	return c.guard.Validate(ErrShipPackageCommandIsNotConstructed)
}

func (c ShipPackageCommand) OrderID() kernel.UUID                { return c.orderID }
func (c ShipPackageCommand) Shipment() fulfillment.ShipmentInput { return c.shipment }

func (c *ShipPackageCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ShipPackageCommand) setShipment(s fulfillment.ShipmentInput) error {
	s.Carrier = strings.TrimSpace(s.Carrier)
	s.Method = strings.TrimSpace(s.Method)
	s.TrackingNumber = strings.TrimSpace(s.TrackingNumber)

	var errList []error
	if s.Carrier == "" {
		errList = append(errList, errs.NewValueIsRequiredError("carrier"))
	}
	if s.TrackingNumber == "" {
		errList = append(errList, errs.NewValueIsRequiredError("trackingNumber"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.shipment = s
	return nil
}

package queries

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetShippingRatesQueryIsNotConstructed = errors.New(
	"GetShippingRatesQuery must be created via NewGetShippingRatesQuery constructor",
)

// GetShippingRatesQuery looks up the carrier rates for a parcel of the given
// weight sent to a destination postal code.
type GetShippingRatesQuery struct {
	destinationZip string
	weight         float64

	guard guard.ConstructorGuard
}

func NewGetShippingRatesQuery(destinationZip string, weight float64) (GetShippingRatesQuery, error) {
	destinationZip = strings.TrimSpace(destinationZip)

	var errList []error
	if destinationZip == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destinationZip"))
	}
	if weight <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v must be positive", weight)))
	}
	if err := errors.Join(errList...); err != nil {
		return GetShippingRatesQuery{}, err
	}

	return GetShippingRatesQuery{
		destinationZip: destinationZip,
		weight:         weight,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetShippingRatesQuery) Validate() error {
	return q.guard.Validate(ErrGetShippingRatesQueryIsNotConstructed)
}

func (q GetShippingRatesQuery) DestinationZip() string { return q.destinationZip }
func (q GetShippingRatesQuery) Weight() float64        { return q.weight }

// ShippingRate is one row of a carrier rate sheet.
type ShippingRate struct {
	Carrier               string
	ServiceCode           string
	OriginPostalCode      string
	DestinationPostalCode string
	WeightMin             float64
	WeightMax             float64
	Price                 float64
	DeliveryDays          *int
}

package fulfillment

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

// Schedule holds the estimates supplied when the order is created.
type Schedule struct {
	EstimatedPickDate     *time.Time
	EstimatedShipDate     *time.Time
	EstimatedDeliveryDate *time.Time
}

// Validate rejects estimates that run backwards: ship before pick or
// delivery before ship.
func (s Schedule) Validate() error {
	return errors.Join(
		notBefore("estimatedShipDate", s.EstimatedShipDate, s.EstimatedPickDate),
		notBefore("estimatedDeliveryDate", s.EstimatedDeliveryDate, s.EstimatedShipDate),
	)
}

func notBefore(name string, later, earlier *time.Time) error {
	if later == nil || earlier == nil || !later.Before(*earlier) {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(name,
		fmt.Errorf("%s is before %s", later.Format(time.RFC3339), earlier.Format(time.RFC3339)))
}

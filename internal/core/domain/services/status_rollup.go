package services

import (
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
)

// RollupNote is recorded on ledger entries written by StatusRollup.
const RollupNote = "Status updated automatically from item progress"

// StatusRollup derives the order status from its items after every pick or
// pack.
//
// Rules:
//   - every unit picked and packed advances the order to packed
//   - every unit picked advances the order to picked
//   - otherwise the status is left alone
//
// The rollup only moves forward along pending < picking < picked < packed and
// never touches shipped, delivered or cancelled orders. Advances go through
// Order.ChangeStatus with no actor, so they land in the ledger like any other
// status change.
//
// Example:
//
//	item, err := o.PickItem(itemID, in, now)
//	if err != nil {
//	    return err
//	}
//	if _, err := services.NewStatusRollup().Recompute(o, now); err != nil {
//	    return err
//	}
type StatusRollup struct{}

func NewStatusRollup() StatusRollup {
	return StatusRollup{}
}

// Recompute advances the order if its items allow it and reports whether a
// status change was recorded.
func (StatusRollup) Recompute(o *fulfillment.Order, at time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	if o.Status().IsClosedForWork() {
		return false, nil
	}

	target, ok := rollupTarget(o.Totals())
	if !ok || !o.Status().Precedes(target) {
		return false, nil
	}

	note := RollupNote
	err := o.ChangeStatus(fulfillment.StrictTransitionPolicy{}, fulfillment.StatusUpdate{
		Status: target,
		Notes:  &note,
	}, at)
	if err != nil {
		return false, err
	}
	return true, nil
}

func rollupTarget(t fulfillment.Totals) (fulfillment.Status, bool) {
	if t.Ordered == 0 || t.Picked != t.Ordered {
		return fulfillment.StatusUnknown, false
	}
	if t.Packed == t.Ordered {
		return fulfillment.StatusPacked, true
	}
	return fulfillment.StatusPicked, true
}

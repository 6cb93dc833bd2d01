package fulfillment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not created via
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// creationNote is recorded on the ledger entry written at creation.
const creationNote = "Fulfillment order created"

// Order is the fulfillment aggregate root. It turns one completed source
// order into warehouse work and carries that work to delivery.
//
// Order follows these invariants:
//   - fulfillment number and source order id are set once and never change
//   - one item per source line, created with the order and never reassigned
//   - shipping details are populated exactly once, by Ship
//   - every status change yields a StatusChange retrievable via PullStatusChanges
type Order struct {
	id            kernel.UUID
	number        string
	sourceOrderID kernel.UUID
	status        Status
	priority      Priority
	assignedTo    *string
	instructions  *string
	schedule      Schedule

	actualPickDate     *time.Time
	actualShipDate     *time.Time
	actualDeliveryDate *time.Time

	shipping *ShippingDetails

	createdAt time.Time
	updatedAt time.Time

	items    []*Item
	packages []*Package

	changes []*StatusChange

	guard guard.ConstructorGuard
}

// ShippingDetails are copied onto the order when it ships.
type ShippingDetails struct {
	Method          string
	Carrier         string
	TrackingNumber  string
	Cost            *float64
	InsuranceAmount *float64
}

// NewOrderParams holds the arguments of NewOrder.
type NewOrderParams struct {
	ID            kernel.UUID
	Number        string
	SourceOrderID kernel.UUID
	Priority      Priority
	AssignedTo    *string
	Instructions  *string
	Schedule      Schedule
	Lines         []Line
	CreatedAt     time.Time
}

// RestoreOrderParams holds the persisted state of an Order.
type RestoreOrderParams struct {
	ID                 kernel.UUID
	Number             string
	SourceOrderID      kernel.UUID
	Status             Status
	Priority           Priority
	AssignedTo         *string
	Instructions       *string
	Schedule           Schedule
	ActualPickDate     *time.Time
	ActualShipDate     *time.Time
	ActualDeliveryDate *time.Time
	Shipping           *ShippingDetails
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []*Item
	Packages           []*Package
}

// ShipmentInput carries the arguments of Ship.
type ShipmentInput struct {
	Carrier         string
	Method          string
	TrackingNumber  string
	Weight          *float64
	Dimensions      *Dimensions
	Cost            *float64
	InsuranceAmount *float64
}

// StatusUpdate describes a manual or system status change.
type StatusUpdate struct {
	Status    Status
	Notes     *string
	Metadata  map[string]any
	ChangedBy *string
}

// Totals sums item quantities over the order.
type Totals struct {
	Ordered int
	Picked  int
	Packed  int
	Shipped int
}

// NewOrder creates a pending order with one item per line and records the
// initial ledger entry (previous status nil).
//
// Example:
//
//	o, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
//	    ID:            kernel.NewUUID(),
//	    Number:        "FUL-00000042",
//	    SourceOrderID: sourceID,
//	    Priority:      fulfillment.PriorityHigh,
//	    Lines:         []fulfillment.Line{{ProductRef: "RING-01", Quantity: 3, UnitPrice: 120}},
//	    CreatedAt:     time.Now().UTC(),
//	})
func NewOrder(p NewOrderParams) (*Order, error) {
	o := &Order{
		status:       StatusPending,
		assignedTo:   p.AssignedTo,
		instructions: p.Instructions,
		createdAt:    p.CreatedAt,
		updatedAt:    p.CreatedAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setSourceOrderID(p.SourceOrderID),
		o.setPriority(p.Priority),
		o.setSchedule(p.Schedule),
	); err != nil {
		return nil, err
	}

	if len(p.Lines) == 0 {
		return nil, errs.NewValueIsRequiredErrorWithCause("lines",
			errors.New("source order has no lines to fulfill"))
	}
	o.items = make([]*Item, 0, len(p.Lines))
	var lineErrs []error
	for idx, line := range p.Lines {
		item, err := newItem(kernel.NewUUID(), o.id, idx+1, line)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", idx+1, err))
			continue
		}
		o.items = append(o.items, item)
	}
	if err := errors.Join(lineErrs...); err != nil {
		return nil, err
	}

	note := creationNote
	if err := o.record(nil, StatusUpdate{Status: StatusPending, Notes: &note}, p.CreatedAt); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an Order from storage. It records no status change.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		assignedTo:         p.AssignedTo,
		instructions:       p.Instructions,
		schedule:           p.Schedule,
		actualPickDate:     p.ActualPickDate,
		actualShipDate:     p.ActualShipDate,
		actualDeliveryDate: p.ActualDeliveryDate,
		shipping:           p.Shipping,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setSourceOrderID(p.SourceOrderID),
		o.setStatus(p.Status),
		o.setPriority(p.Priority),
		o.setItems(p.Items),
		o.setPackages(p.Packages),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID                { return o.id }
func (o *Order) Number() string                 { return o.number }
func (o *Order) SourceOrderID() kernel.UUID     { return o.sourceOrderID }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) Priority() Priority             { return o.priority }
func (o *Order) AssignedTo() *string            { return o.assignedTo }
func (o *Order) Instructions() *string          { return o.instructions }
func (o *Order) Schedule() Schedule             { return o.schedule }
func (o *Order) ActualPickDate() *time.Time     { return o.actualPickDate }
func (o *Order) ActualShipDate() *time.Time     { return o.actualShipDate }
func (o *Order) ActualDeliveryDate() *time.Time { return o.actualDeliveryDate }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) UpdatedAt() time.Time           { return o.updatedAt }

// Shipping returns nil until the order has shipped.
func (o *Order) Shipping() *ShippingDetails {
	if o.shipping == nil {
		return nil
	}
	s := *o.shipping
	return &s
}

// Items returns the order's items in line order.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

// Packages returns the order's packages in creation order.
func (o *Order) Packages() []*Package {
	out := make([]*Package, len(o.packages))
	copy(out, o.packages)
	return out
}

// Item looks an item up by id.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("fulfillment item", itemID)
}

// Totals sums ordered, picked, packed and shipped quantities.
func (o *Order) Totals() Totals {
	var t Totals
	for _, item := range o.items {
		t.Ordered += item.quantityOrdered
		t.Picked += item.quantityPicked
		t.Packed += item.quantityPacked
		t.Shipped += item.quantityShipped
	}
	return t
}

// PickItem sets the picked quantity of one item. It fails with an
// InvalidStateError once the order is shipped, delivered or cancelled.
func (o *Order) PickItem(itemID kernel.UUID, in PickInput, at time.Time) (*Item, error) {
	item, err := o.openItem(itemID)
	if err != nil {
		return nil, err
	}
	if err := item.pick(in, at); err != nil {
		return nil, err
	}
	o.updatedAt = at
	return item, nil
}

// PackItem sets the packed quantity of one item.
func (o *Order) PackItem(itemID kernel.UUID, in PackInput, at time.Time) (*Item, error) {
	item, err := o.openItem(itemID)
	if err != nil {
		return nil, err
	}
	if err := item.pack(in, at); err != nil {
		return nil, err
	}
	o.updatedAt = at
	return item, nil
}

// ChangeStatus applies a status update allowed by transitions. Entering
// picked stamps the actual pick date, shipped the actual ship date and
// delivered the actual delivery date together with every package's
// delivery time.
func (o *Order) ChangeStatus(transitions TransitionPolicy, u StatusUpdate, at time.Time) error {
	if transitions == nil {
		transitions = StrictTransitionPolicy{}
	}
	if err := transitions.Allow(o.status, u.Status); err != nil {
		return err
	}

	previous := o.status
	if err := o.record(&previous, u, at); err != nil {
		return err
	}

	o.status = u.Status
	o.updatedAt = at
	switch u.Status {
	case StatusPicked:
		o.actualPickDate = &at
	case StatusPacked:
		if o.actualPickDate == nil {
			o.actualPickDate = &at
		}
	case StatusShipped:
		o.actualShipDate = &at
	case StatusDelivered:
		o.actualDeliveryDate = &at
		for _, pkg := range o.packages {
			pkg.markDelivered(at)
		}
	default:
	}
	return nil
}

// CanShip checks every precondition of Ship without changing the order.
func (o *Order) CanShip(policy Policy, in ShipmentInput) error {
	var errList []error
	if strings.TrimSpace(in.Carrier) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("carrier"))
	}
	if strings.TrimSpace(in.TrackingNumber) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("trackingNumber"))
	}
	if in.Weight != nil && *in.Weight <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%v must be positive", *in.Weight)))
	}
	errList = append(errList, notNegative("cost", in.Cost), notNegative("insuranceAmount", in.InsuranceAmount))
	if err := errors.Join(errList...); err != nil {
		return err
	}

	if o.shipping != nil {
		return errs.NewInvalidStateErrorWithCause("fulfillment order", o.status,
			errors.New("order has already been shipped"))
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidStateError("fulfillment order", o.status)
	}
	if policy.Shipping == ShipRequiresPacked && o.status != StatusPacked {
		return errs.NewInvalidStateErrorWithCause("fulfillment order", o.status,
			errors.New("order must be packed before it ships"))
	}
	return policy.transitions().Allow(o.status, StatusShipped)
}

// Ship creates the package, copies the shipping fields onto the order, marks
// every packed unit as shipped and moves the order to shipped.
func (o *Order) Ship(policy Policy, in ShipmentInput, packageID kernel.UUID, packageNumber string, at time.Time) (*Package, error) {
	if err := o.CanShip(policy, in); err != nil {
		return nil, err
	}

	carrier := strings.TrimSpace(in.Carrier)
	pkg, err := RestorePackage(RestorePackageParams{
		ID:             packageID,
		OrderID:        o.id,
		PackageNumber:  packageNumber,
		Carrier:        carrier,
		TrackingNumber: strings.TrimSpace(in.TrackingNumber),
		Weight:         in.Weight,
		Dimensions:     in.Dimensions,
		ShippedAt:      at,
	})
	if err != nil {
		return nil, err
	}

	note := "Package shipped via " + carrier
	if err := o.ChangeStatus(policy.transitions(), StatusUpdate{Status: StatusShipped, Notes: &note}, at); err != nil {
		return nil, err
	}

	o.packages = append(o.packages, pkg)
	o.shipping = &ShippingDetails{
		Method:          strings.TrimSpace(in.Method),
		Carrier:         carrier,
		TrackingNumber:  pkg.trackingNumber,
		Cost:            in.Cost,
		InsuranceAmount: in.InsuranceAmount,
	}
	for _, item := range o.items {
		item.markShipped()
	}
	return pkg, nil
}

// PullStatusChanges returns the status changes recorded since the order was
// created or restored and clears them.
func (o *Order) PullStatusChanges() []*StatusChange {
	out := o.changes
	o.changes = nil
	return out
}

func notNegative(name string, amount *float64) error {
	if amount == nil || *amount >= 0 {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is negative", *amount))
}

func (o *Order) openItem(itemID kernel.UUID) (*Item, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return nil, err
	}
	if o.status.IsClosedForWork() {
		return nil, errs.NewInvalidStateErrorWithCause("fulfillment order", o.status,
			errors.New("items can no longer be picked or packed"))
	}
	return item, nil
}

func (o *Order) record(previous *Status, u StatusUpdate, at time.Time) error {
	change, err := NewStatusChange(StatusChangeParams{
		OrderID:        o.id,
		Status:         u.Status,
		PreviousStatus: previous,
		ChangedBy:      u.ChangedBy,
		Notes:          u.Notes,
		Metadata:       u.Metadata,
		ChangedAt:      at,
	})
	if err != nil {
		return err
	}
	o.changes = append(o.changes, change)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("fulfillment order id", err)
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return errs.NewValueIsRequiredError("fulfillmentNumber")
	}
	o.number = n
	return nil
}

func (o *Order) setSourceOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sourceOrderId", err)
	}
	o.sourceOrderID = id
	return nil
}

func (o *Order) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.status = s
	return nil
}

func (o *Order) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func (o *Order) setSchedule(s Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.schedule = s
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setPackages(packages []*Package) error {
	for _, pkg := range packages {
		if err := pkg.Validate(); err != nil {
			return err
		}
	}
	o.packages = packages
	return nil
}

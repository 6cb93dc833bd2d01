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

// ErrItemIsNotConstructed is returned when an Item was not created via
// newItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via its order or RestoreItem")

// Item tracks the pick, pack and ship progress of one source order line.
//
// Invariant: 0 <= quantityShipped <= quantityPacked <= quantityPicked <= quantityOrdered.
type Item struct {
	id         kernel.UUID
	orderID    kernel.UUID
	lineNumber int
	productRef string
	unitPrice  float64

	quantityOrdered int
	quantityPicked  int
	quantityPacked  int
	quantityShipped int

	pickedBy *string
	pickedAt *time.Time
	packedBy *string
	packedAt *time.Time

	location *kernel.BinLocation
	notes    *string

	guard guard.ConstructorGuard
}

// Line is a source order line an item is created from.
type Line struct {
	ProductRef string
	Quantity   int
	UnitPrice  float64
}

// PickInput carries the arguments of a pick operation.
type PickInput struct {
	Quantity int
	PickedBy string
	Location *kernel.BinLocation
	Notes    *string
}

// PackInput carries the arguments of a pack operation.
type PackInput struct {
	Quantity int
	PackedBy string
	Notes    *string
}

// RestoreItemParams holds the persisted state of an Item.
type RestoreItemParams struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	LineNumber      int
	ProductRef      string
	UnitPrice       float64
	QuantityOrdered int
	QuantityPicked  int
	QuantityPacked  int
	QuantityShipped int
	PickedBy        *string
	PickedAt        *time.Time
	PackedBy        *string
	PackedAt        *time.Time
	Location        *kernel.BinLocation
	Notes           *string
}

func newItem(id, orderID kernel.UUID, lineNumber int, line Line) (*Item, error) {
	item := &Item{
		lineNumber: lineNumber,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setOrderID(orderID),
		item.setProductRef(line.ProductRef),
		item.setUnitPrice(line.UnitPrice),
		item.setQuantityOrdered(line.Quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem rebuilds an Item from storage and re-checks the quantity
// invariant.
func RestoreItem(p RestoreItemParams) (*Item, error) {
	item := &Item{
		lineNumber:      p.LineNumber,
		quantityPicked:  p.QuantityPicked,
		quantityPacked:  p.QuantityPacked,
		quantityShipped: p.QuantityShipped,
		pickedBy:        p.PickedBy,
		pickedAt:        p.PickedAt,
		packedBy:        p.PackedBy,
		packedAt:        p.PackedAt,
		location:        p.Location,
		notes:           p.Notes,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(p.ID),
		item.setOrderID(p.OrderID),
		item.setProductRef(p.ProductRef),
		item.setUnitPrice(p.UnitPrice),
		item.setQuantityOrdered(p.QuantityOrdered),
	); err != nil {
		return nil, err
	}
	if err := item.checkQuantities(); err != nil {
		return nil, err
	}

	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID               { return i.id }
func (i *Item) OrderID() kernel.UUID          { return i.orderID }
func (i *Item) LineNumber() int               { return i.lineNumber }
func (i *Item) ProductRef() string            { return i.productRef }
func (i *Item) UnitPrice() float64            { return i.unitPrice }
func (i *Item) QuantityOrdered() int          { return i.quantityOrdered }
func (i *Item) QuantityPicked() int           { return i.quantityPicked }
func (i *Item) QuantityPacked() int           { return i.quantityPacked }
func (i *Item) QuantityShipped() int          { return i.quantityShipped }
func (i *Item) PickedBy() *string             { return i.pickedBy }
func (i *Item) PickedAt() *time.Time          { return i.pickedAt }
func (i *Item) PackedBy() *string             { return i.packedBy }
func (i *Item) PackedAt() *time.Time          { return i.packedAt }
func (i *Item) Location() *kernel.BinLocation { return i.location }
func (i *Item) Notes() *string                { return i.notes }

// pick sets the picked quantity. The new quantity must lie between the
// current picked quantity and the ordered quantity. The actor and time are
// stamped whenever the resulting quantity is non-zero. On error the item is
// left untouched.
func (i *Item) pick(in PickInput, at time.Time) error {
	pickedBy := strings.TrimSpace(in.PickedBy)
	if pickedBy == "" {
		return errs.NewValueIsRequiredError("pickedBy")
	}
	if in.Quantity < i.quantityPicked || in.Quantity > i.quantityOrdered {
		return errs.NewValueIsOutOfRangeError("quantity", in.Quantity, i.quantityPicked, i.quantityOrdered)
	}
	if in.Location != nil {
		if err := in.Location.Validate(); err != nil {
			return err
		}
	}

	i.quantityPicked = in.Quantity
	if in.Quantity > 0 {
		i.pickedBy = &pickedBy
		i.pickedAt = &at
	}
	if in.Location != nil {
		loc := *in.Location
		i.location = &loc
	}
	if in.Notes != nil {
		i.notes = in.Notes
	}
	return nil
}

// pack sets the packed quantity within [packed, picked].
func (i *Item) pack(in PackInput, at time.Time) error {
	packedBy := strings.TrimSpace(in.PackedBy)
	if packedBy == "" {
		return errs.NewValueIsRequiredError("packedBy")
	}
	if in.Quantity < i.quantityPacked || in.Quantity > i.quantityPicked {
		return errs.NewValueIsOutOfRangeError("quantity", in.Quantity, i.quantityPacked, i.quantityPicked)
	}

	i.quantityPacked = in.Quantity
	if in.Quantity > 0 {
		i.packedBy = &packedBy
		i.packedAt = &at
	}
	if in.Notes != nil {
		i.notes = in.Notes
	}
	return nil
}

func (i *Item) markShipped() {
	i.quantityShipped = i.quantityPacked
}

func (i *Item) checkQuantities() error {
	switch {
	case i.quantityPicked < 0 || i.quantityPicked > i.quantityOrdered:
		return errs.NewValueIsOutOfRangeError("quantityPicked", i.quantityPicked, 0, i.quantityOrdered)
	case i.quantityPacked < 0 || i.quantityPacked > i.quantityPicked:
		return errs.NewValueIsOutOfRangeError("quantityPacked", i.quantityPacked, 0, i.quantityPicked)
	case i.quantityShipped < 0 || i.quantityShipped > i.quantityPacked:
		return errs.NewValueIsOutOfRangeError("quantityShipped", i.quantityShipped, 0, i.quantityPacked)
	}
	return nil
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("item id", err)
	}
	i.id = id
	return nil
}

func (i *Item) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("item order id", err)
	}
	i.orderID = id
	return nil
}

func (i *Item) setProductRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("productRef")
	}
	i.productRef = ref
	return nil
}

func (i *Item) setUnitPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%v is negative", price))
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setQuantityOrdered(q int) error {
	if q <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantityOrdered", fmt.Errorf("%d must be positive", q))
	}
	i.quantityOrdered = q
	return nil
}

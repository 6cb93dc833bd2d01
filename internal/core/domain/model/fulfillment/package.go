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

var ErrPackageIsNotConstructed = errors.New("Package must be created by Order.Ship or RestorePackage")

// Dimensions of a shipping box, in the same unit for every side.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// NewDimensions rejects non-positive sides.
func NewDimensions(length, width, height float64) (Dimensions, error) {
	if err := errors.Join(
		positive("length", length),
		positive("width", width),
		positive("height", height),
	); err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Length: length, Width: width, Height: height}, nil
}

// Package is a physical box sent to the customer.
type Package struct {
	id             kernel.UUID
	orderID        kernel.UUID
	packageNumber  string
	carrier        string
	trackingNumber string
	weight         *float64
	dimensions     *Dimensions
	shippedAt      time.Time
	deliveredAt    *time.Time

	guard guard.ConstructorGuard
}

// RestorePackageParams holds the persisted state of a Package.
type RestorePackageParams struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	PackageNumber  string
	Carrier        string
	TrackingNumber string
	Weight         *float64
	Dimensions     *Dimensions
	ShippedAt      time.Time
	DeliveredAt    *time.Time
}

// RestorePackage rebuilds a Package from storage.
func RestorePackage(p RestorePackageParams) (*Package, error) {
	pkg := &Package{
		carrier:        p.Carrier,
		trackingNumber: p.TrackingNumber,
		weight:         p.Weight,
		dimensions:     p.Dimensions,
		shippedAt:      p.ShippedAt,
		deliveredAt:    p.DeliveredAt,
		guard:          guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		validateID("package id", p.ID),
		validateID("package order id", p.OrderID),
		pkg.setPackageNumber(p.PackageNumber),
	); err != nil {
		return nil, err
	}
	pkg.id = p.ID
	pkg.orderID = p.OrderID
	return pkg, nil
}

func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

func (p *Package) ID() kernel.UUID         { return p.id }
func (p *Package) OrderID() kernel.UUID    { return p.orderID }
func (p *Package) PackageNumber() string   { return p.packageNumber }
func (p *Package) Carrier() string         { return p.carrier }
func (p *Package) TrackingNumber() string  { return p.trackingNumber }
func (p *Package) Weight() *float64        { return p.weight }
func (p *Package) Dimensions() *Dimensions { return p.dimensions }
func (p *Package) ShippedAt() time.Time    { return p.shippedAt }
func (p *Package) DeliveredAt() *time.Time { return p.deliveredAt }

func (p *Package) markDelivered(at time.Time) {
	if p.deliveredAt == nil {
		p.deliveredAt = &at
	}
}

func (p *Package) setPackageNumber(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return errs.NewValueIsRequiredError("packageNumber")
	}
	p.packageNumber = n
	return nil
}

func positive(name string, v float64) error {
	if v <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v must be positive", v))
	}
	return nil
}

func validateID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

// Package fulfillmentrepo persists fulfillment order aggregates: the order
// row, its items and its shipping packages.
package fulfillmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// OrderDTO is the fulfillment_orders row. Status and priority are stored by
// name so that reporting SQL can read them directly.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	FulfillmentNumber string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	SourceOrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status            string    `gorm:"type:varchar(16);not null;index"`
	Priority          string    `gorm:"type:varchar(16);not null;index"`
	AssignedTo        *string   `gorm:"type:varchar(255);index"`
	Instructions      *string   `gorm:"type:text"`

	EstimatedPickDate     *time.Time
	EstimatedShipDate     *time.Time
	EstimatedDeliveryDate *time.Time
	ActualPickDate        *time.Time
	ActualShipDate        *time.Time
	ActualDeliveryDate    *time.Time

	Shipping ShippingDTO `gorm:"embedded;embeddedPrefix:shipping_"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Items    []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Packages []PackageDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "fulfillment_orders"
}

// ShippingDTO holds the shipping columns. Carrier is NULL until the order
// ships.
type ShippingDTO struct {
	Method          *string  `gorm:"type:varchar(64)"`
	Carrier         *string  `gorm:"type:varchar(64)"`
	TrackingNumber  *string  `gorm:"type:varchar(128)"`
	Cost            *float64 `gorm:"type:numeric(12,2)"`
	InsuranceAmount *float64 `gorm:"type:numeric(12,2)"`
}

// ItemDTO is the fulfillment_items row.
type ItemDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber      int       `gorm:"not null"`
	ProductRef      string    `gorm:"type:varchar(128);not null"`
	UnitPrice       float64   `gorm:"type:numeric(12,2);not null"`
	QuantityOrdered int       `gorm:"not null"`
	QuantityPicked  int       `gorm:"not null;default:0"`
	QuantityPacked  int       `gorm:"not null;default:0"`
	QuantityShipped int       `gorm:"not null;default:0"`
	PickedBy        *string   `gorm:"type:varchar(255)"`
	PickedAt        *time.Time
	PackedBy        *string `gorm:"type:varchar(255)"`
	PackedAt        *time.Time
	LocationCode    *string `gorm:"type:varchar(64)"`
	BinNumber       *string `gorm:"type:varchar(32)"`
	Notes           *string `gorm:"type:text"`
}

func (ItemDTO) TableName() string {
	return "fulfillment_items"
}

// PackageDTO is the shipping_packages row.
type PackageDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_package_number_per_order"`
	PackageNumber  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_package_number_per_order"`
	Carrier        string    `gorm:"type:varchar(64);not null"`
	TrackingNumber string    `gorm:"type:varchar(128);not null"`
	Weight         *float64
	Length         *float64
	Width          *float64
	Height         *float64
	ShippedAt      time.Time `gorm:"not null"`
	DeliveredAt    *time.Time
}

func (PackageDTO) TableName() string {
	return "shipping_packages"
}

func fromDomain(o *fulfillment.Order) OrderDTO {
	orderID := o.ID().Bytes()
	schedule := o.Schedule()

	dto := OrderDTO{
		ID:                    orderID,
		FulfillmentNumber:     o.Number(),
		SourceOrderID:         o.SourceOrderID().Bytes(),
		Status:                o.Status().String(),
		Priority:              o.Priority().String(),
		AssignedTo:            o.AssignedTo(),
		Instructions:          o.Instructions(),
		EstimatedPickDate:     schedule.EstimatedPickDate,
		EstimatedShipDate:     schedule.EstimatedShipDate,
		EstimatedDeliveryDate: schedule.EstimatedDeliveryDate,
		ActualPickDate:        o.ActualPickDate(),
		ActualShipDate:        o.ActualShipDate(),
		ActualDeliveryDate:    o.ActualDeliveryDate(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Items:                 make([]ItemDTO, 0, len(o.Items())),
		Packages:              make([]PackageDTO, 0, len(o.Packages())),
	}

	if s := o.Shipping(); s != nil {
		dto.Shipping = ShippingDTO{
			Method:          &s.Method,
			Carrier:         &s.Carrier,
			TrackingNumber:  &s.TrackingNumber,
			Cost:            s.Cost,
			InsuranceAmount: s.InsuranceAmount,
		}
	}

	for _, item := range o.Items() {
		dto.Items = append(dto.Items, itemFromDomain(item))
	}
	for _, pkg := range o.Packages() {
		dto.Packages = append(dto.Packages, packageFromDomain(pkg))
	}

	return dto
}

func itemFromDomain(item *fulfillment.Item) ItemDTO {
	dto := ItemDTO{
		ID:              item.ID().Bytes(),
		OrderID:         item.OrderID().Bytes(),
		LineNumber:      item.LineNumber(),
		ProductRef:      item.ProductRef(),
		UnitPrice:       item.UnitPrice(),
		QuantityOrdered: item.QuantityOrdered(),
		QuantityPicked:  item.QuantityPicked(),
		QuantityPacked:  item.QuantityPacked(),
		QuantityShipped: item.QuantityShipped(),
		PickedBy:        item.PickedBy(),
		PickedAt:        item.PickedAt(),
		PackedBy:        item.PackedBy(),
		PackedAt:        item.PackedAt(),
		Notes:           item.Notes(),
	}
	if loc := item.Location(); loc != nil {
		code := loc.LocationCode()
		dto.LocationCode = &code
		if bin := loc.BinNumber(); bin != "" {
			dto.BinNumber = &bin
		}
	}
	return dto
}

func packageFromDomain(pkg *fulfillment.Package) PackageDTO {
	dto := PackageDTO{
		ID:             pkg.ID().Bytes(),
		OrderID:        pkg.OrderID().Bytes(),
		PackageNumber:  pkg.PackageNumber(),
		Carrier:        pkg.Carrier(),
		TrackingNumber: pkg.TrackingNumber(),
		Weight:         pkg.Weight(),
		ShippedAt:      pkg.ShippedAt(),
		DeliveredAt:    pkg.DeliveredAt(),
	}
	if d := pkg.Dimensions(); d != nil {
		dto.Length, dto.Width, dto.Height = &d.Length, &d.Width, &d.Height
	}
	return dto
}

func toDomain(dto OrderDTO) (*fulfillment.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sourceID, err := kernel.UUIDFromBytes(dto.SourceOrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := fulfillment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	priority, err := fulfillment.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}

	items := make([]*fulfillment.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	packages := make([]*fulfillment.Package, 0, len(dto.Packages))
	for _, pkgDTO := range dto.Packages {
		pkg, pkgErr := packageToDomain(pkgDTO)
		if pkgErr != nil {
			return nil, pkgErr
		}
		packages = append(packages, pkg)
	}

	var shipping *fulfillment.ShippingDetails
	if dto.Shipping.Carrier != nil {
		shipping = &fulfillment.ShippingDetails{
			Method:          deref(dto.Shipping.Method),
			Carrier:         *dto.Shipping.Carrier,
			TrackingNumber:  deref(dto.Shipping.TrackingNumber),
			Cost:            dto.Shipping.Cost,
			InsuranceAmount: dto.Shipping.InsuranceAmount,
		}
	}

	return fulfillment.RestoreOrder(fulfillment.RestoreOrderParams{
		ID:            id,
		Number:        dto.FulfillmentNumber,
		SourceOrderID: sourceID,
		Status:        status,
		Priority:      priority,
		AssignedTo:    dto.AssignedTo,
		Instructions:  dto.Instructions,
		Schedule: fulfillment.Schedule{
			EstimatedPickDate:     dto.EstimatedPickDate,
			EstimatedShipDate:     dto.EstimatedShipDate,
			EstimatedDeliveryDate: dto.EstimatedDeliveryDate,
		},
		ActualPickDate:     dto.ActualPickDate,
		ActualShipDate:     dto.ActualShipDate,
		ActualDeliveryDate: dto.ActualDeliveryDate,
		Shipping:           shipping,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Items:              items,
		Packages:           packages,
	})
}

func itemToDomain(dto ItemDTO) (*fulfillment.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.BinLocation
	if dto.LocationCode != nil {
		loc, locErr := kernel.NewBinLocation(*dto.LocationCode, deref(dto.BinNumber))
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return fulfillment.RestoreItem(fulfillment.RestoreItemParams{
		ID:              id,
		OrderID:         orderID,
		LineNumber:      dto.LineNumber,
		ProductRef:      dto.ProductRef,
		UnitPrice:       dto.UnitPrice,
		QuantityOrdered: dto.QuantityOrdered,
		QuantityPicked:  dto.QuantityPicked,
		QuantityPacked:  dto.QuantityPacked,
		QuantityShipped: dto.QuantityShipped,
		PickedBy:        dto.PickedBy,
		PickedAt:        dto.PickedAt,
		PackedBy:        dto.PackedBy,
		PackedAt:        dto.PackedAt,
		Location:        location,
		Notes:           dto.Notes,
	})
}

func packageToDomain(dto PackageDTO) (*fulfillment.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var dims *fulfillment.Dimensions
	if dto.Length != nil && dto.Width != nil && dto.Height != nil {
		dims = &fulfillment.Dimensions{Length: *dto.Length, Width: *dto.Width, Height: *dto.Height}
	}

	return fulfillment.RestorePackage(fulfillment.RestorePackageParams{
		ID:             id,
		OrderID:        orderID,
		PackageNumber:  dto.PackageNumber,
		Carrier:        dto.Carrier,
		TrackingNumber: dto.TrackingNumber,
		Weight:         dto.Weight,
		Dimensions:     dims,
		ShippedAt:      dto.ShippedAt,
		DeliveredAt:    dto.DeliveredAt,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

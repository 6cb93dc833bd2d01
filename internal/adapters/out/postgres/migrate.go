package postgres

import (
	"fmt"

	"fulfillment/internal/adapters/out/postgres/fulfillmentrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/sequencegen"

	"gorm.io/gorm"
)

// ShippingRateDTO is the read-only shipping_rates table, filled from the
// carriers' rate sheets by an external import.
type ShippingRateDTO struct {
	ID                    uint    `gorm:"primaryKey"`
	Carrier               string  `gorm:"type:varchar(64);not null"`
	ServiceCode           string  `gorm:"type:varchar(64);not null"`
	OriginPostalCode      string  `gorm:"type:varchar(16);not null"`
	DestinationPostalCode string  `gorm:"type:varchar(16);not null;index"`
	WeightMin             float64 `gorm:"not null"`
	WeightMax             float64 `gorm:"not null"`
	Price                 float64 `gorm:"type:numeric(12,2);not null"`
	DeliveryDays          *int
}

func (ShippingRateDTO) TableName() string {
	return "shipping_rates"
}

// Migrate creates the tables and the fulfillment number sequence owned by
// this service. The sales order tables belong to another module and are
// left alone.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&fulfillmentrepo.OrderDTO{},
		&fulfillmentrepo.ItemDTO{},
		&fulfillmentrepo.PackageDTO{},
		&ledgerrepo.StatusChangeDTO{},
		&sequencegen.PackageCounterDTO{},
		&ShippingRateDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	err = db.Exec("CREATE SEQUENCE IF NOT EXISTS " + sequencegen.FulfillmentNumberSequence).Error
	if err != nil {
		return fmt.Errorf("create fulfillment number sequence: %w", err)
	}
	return nil
}

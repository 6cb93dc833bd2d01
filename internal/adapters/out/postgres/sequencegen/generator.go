// Package sequencegen allocates fulfillment and package numbers from
// PostgreSQL on the caller's connection. Package counters roll back with the
// surrounding transaction. Fulfillment numbers come from nextval, which is
// not transactional: a rolled back create still uses up its number, so gaps
// in the fulfillment numbering are expected.
package sequencegen

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FulfillmentNumberSequence is created by the schema migration.
const FulfillmentNumberSequence = "fulfillment_number_seq"

// PackageCounterDTO keeps the last package number issued for an order.
type PackageCounterDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastValue int       `gorm:"not null"`
}

func (PackageCounterDTO) TableName() string {
	return "package_counters"
}

// GormSequenceGenerator implements ports.SequenceGenerator.
//
// Fulfillment numbers come from a database sequence and look like
// "FUL-00000042". Package numbers are counted per order with an upsert and
// look like "PKG-001"; the upsert takes a row lock, so two shipments of the
// same order never share a number.
type GormSequenceGenerator struct {
	db *gorm.DB
}

func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

func (g *GormSequenceGenerator) NextFulfillmentNumber(ctx context.Context) (string, error) {
	var next int64
	err := g.db.WithContext(ctx).Raw("SELECT nextval(?::regclass)", FulfillmentNumberSequence).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("allocate fulfillment number: %w", err)
	}
	return fmt.Sprintf("FUL-%08d", next), nil
}

func (g *GormSequenceGenerator) NextPackageNumber(ctx context.Context, orderID kernel.UUID) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}

	var next int
	err := g.db.WithContext(ctx).Raw(`
		INSERT INTO package_counters (order_id, last_value)
		VALUES (?, 1)
		ON CONFLICT (order_id) DO UPDATE SET last_value = package_counters.last_value + 1
		RETURNING last_value
	`, orderID.Bytes()).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("allocate package number: %w", err)
	}
	return fmt.Sprintf("PKG-%03d", next), nil
}

// Package sourceorderrepo reads sales orders owned by the order management
// module. It never writes to these tables.
package sourceorderrepo

import (
	"github.com/google/uuid"
)

// SalesOrderDTO maps the sales orders table.
type SalesOrderDTO struct {
	ID     uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Status string              `gorm:"type:varchar(32);not null"`
	Lines  []SalesOrderLineDTO `gorm:"foreignKey:OrderID"`
}

func (SalesOrderDTO) TableName() string {
	return "orders"
}

// SalesOrderLineDTO maps one sales order line.
type SalesOrderLineDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber int       `gorm:"not null"`
	ProductRef string    `gorm:"type:varchar(128);not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  float64   `gorm:"type:numeric(12,2);not null"`
}

func (SalesOrderLineDTO) TableName() string {
	return "order_lines"
}

// Package ledgerrepo stores the append-only status ledger.
package ledgerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StatusChangeDTO is one fulfillment_status_history row. Position orders the
// entries of an order independently of clock resolution.
type StatusChangeDTO struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_status_history_position"`
	Position       int               `gorm:"not null;uniqueIndex:idx_status_history_position"`
	Status         string            `gorm:"type:varchar(16);not null"`
	PreviousStatus *string           `gorm:"type:varchar(16)"`
	ChangedBy      *string           `gorm:"type:varchar(255)"`
	Notes          *string           `gorm:"type:text"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	ChangedAt      time.Time         `gorm:"not null;index"`
}

func (StatusChangeDTO) TableName() string {
	return "fulfillment_status_history"
}

func fromDomain(c *fulfillment.StatusChange, position int) StatusChangeDTO {
	var previous *string
	if p := c.PreviousStatus(); p != nil {
		name := p.String()
		previous = &name
	}

	var metadata datatypes.JSONMap
	if m := c.Metadata(); len(m) > 0 {
		metadata = datatypes.JSONMap(m)
	}

	return StatusChangeDTO{
		ID:             c.ID().Bytes(),
		OrderID:        c.OrderID().Bytes(),
		Position:       position,
		Status:         c.Status().String(),
		PreviousStatus: previous,
		ChangedBy:      c.ChangedBy(),
		Notes:          c.Notes(),
		Metadata:       metadata,
		ChangedAt:      c.ChangedAt(),
	}
}

func toDomain(dto StatusChangeDTO) (*fulfillment.StatusChange, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := fulfillment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var previous *fulfillment.Status
	if dto.PreviousStatus != nil {
		p, prevErr := fulfillment.ParseStatus(*dto.PreviousStatus)
		if prevErr != nil {
			return nil, prevErr
		}
		previous = &p
	}

	return fulfillment.RestoreStatusChange(fulfillment.StatusChangeParams{
		ID:             id,
		OrderID:        orderID,
		Status:         status,
		PreviousStatus: previous,
		ChangedBy:      dto.ChangedBy,
		Notes:          dto.Notes,
		Metadata:       dto.Metadata,
		ChangedAt:      dto.ChangedAt,
	})
}

package sourceorderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSourceOrderProvider implements ports.SourceOrderProvider.
type GormSourceOrderProvider struct {
	db *gorm.DB
}

func NewGormSourceOrderProvider(db *gorm.DB) *GormSourceOrderProvider {
	return &GormSourceOrderProvider{db: db}
}

// Get loads a sales order with its lines in line order.
func (p *GormSourceOrderProvider) Get(ctx context.Context, id kernel.UUID) (ports.SourceOrder, error) {
	if err := id.Validate(); err != nil {
		return ports.SourceOrder{}, err
	}

	var dto SalesOrderDTO
	err := p.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SourceOrder{}, errs.NewObjectNotFoundError("source order", id.String())
		}
		return ports.SourceOrder{}, err
	}

	lines := make([]ports.SourceOrderLine, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lines = append(lines, ports.SourceOrderLine{
			ProductRef: l.ProductRef,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}

	return ports.SourceOrder{ID: id, Status: dto.Status, Lines: lines}, nil
}

package fulfillmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFulfillmentOrderRepository implements ports.FulfillmentOrderRepository
// using GORM.
type GormFulfillmentOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormFulfillmentOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormFulfillmentOrderRepository {
	return &GormFulfillmentOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order with its items. The unique index on
// source_order_id turns a concurrent duplicate into errs.ErrConflict; the
// connection must be opened with TranslateError enabled.
func (r *GormFulfillmentOrderRepository) Add(ctx context.Context, aggregate *fulfillment.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("fulfillment order for source order", aggregate.SourceOrderID(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row and upserts its items and packages.
func (r *GormFulfillmentOrderRepository) Update(ctx context.Context, aggregate *fulfillment.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads an order without locking it.
func (r *GormFulfillmentOrderRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error) {
	return r.load(ctx, id, false)
}

// GetForUpdate loads an order with SELECT ... FOR UPDATE on its row.
func (r *GormFulfillmentOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error) {
	return r.load(ctx, id, true)
}

// GetByItemForUpdate resolves the owning order of an item and locks it.
func (r *GormFulfillmentOrderRepository) GetByItemForUpdate(
	ctx context.Context,
	itemID kernel.UUID,
) (*fulfillment.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var item ItemDTO
	err := r.db.WithContext(ctx).Select("order_id").First(&item, "id = ?", itemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillment item", itemID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(item.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.load(ctx, orderID, true)
}

func (r *GormFulfillmentOrderRepository) ExistsForSourceOrder(ctx context.Context, sourceOrderID kernel.UUID) (bool, error) {
	if err := sourceOrderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("source_order_id = ?", sourceOrderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// load reads the order row first, locking it when asked, and then its items
// and packages, so the lock is taken before any child row is read.
func (r *GormFulfillmentOrderRepository) load(ctx context.Context, id kernel.UUID, lock bool) (*fulfillment.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	query := db
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillment order", id.String())
		}
		return nil, err
	}

	if err := db.Order("line_number").Find(&dto.Items, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}
	if err := db.Order("shipped_at, package_number").Find(&dto.Packages, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

package ledgerrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormStatusLedger implements ports.StatusLedger. Entries are only ever
// inserted.
type GormStatusLedger struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormStatusLedger(db *gorm.DB, tracker aggregateTracker) *GormStatusLedger {
	return &GormStatusLedger{
		db:      db,
		tracker: tracker,
	}
}

// Append inserts the entries after the last stored position of each order.
// Callers hold the order row lock, so positions do not race.
func (l *GormStatusLedger) Append(ctx context.Context, changes ...*fulfillment.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	db := l.db.WithContext(ctx)
	next := make(map[kernel.UUID]int)
	dtos := make([]StatusChangeDTO, 0, len(changes))

	for _, c := range changes {
		if err := c.Validate(); err != nil {
			return err
		}

		position, ok := next[c.OrderID()]
		if !ok {
			var last int
			err := db.Model(&StatusChangeDTO{}).
				Select("COALESCE(MAX(position), 0)").
				Where("order_id = ?", c.OrderID().Bytes()).
				Scan(&last).Error
			if err != nil {
				return err
			}
			position = last
		}
		position++
		next[c.OrderID()] = position

		dtos = append(dtos, fromDomain(c, position))
	}

	if err := db.Create(&dtos).Error; err != nil {
		return err
	}

	for _, c := range changes {
		l.tracker.TrackAggregate(c.OrderID(), c)
	}
	return nil
}

// ListByOrder returns an order's entries oldest first. An unknown order has
// an empty history.
func (l *GormStatusLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*fulfillment.StatusChange, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StatusChangeDTO
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("position").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	changes := make([]*fulfillment.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		c, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		changes = append(changes, c)
	}
	return changes, nil
}

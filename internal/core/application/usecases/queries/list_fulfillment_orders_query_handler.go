package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFulfillmentOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListFulfillmentOrdersQueryHandler(db *gorm.DB) ListFulfillmentOrdersQueryHandler {
	return ListFulfillmentOrdersQueryHandler{db: db}
}

type summaryRow struct {
	ID                uuid.UUID
	FulfillmentNumber string
	SourceOrderID     uuid.UUID
	Status            string
	Priority          string
	AssignedTo        *string
	EstimatedShipDate *time.Time
	ItemCount         int
	QuantityOrdered   int
	QuantityPicked    int
	QuantityPacked    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Handle counts the matching orders and reads one page ordered by creation
// time, newest first.
func (h ListFulfillmentOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListFulfillmentOrdersQuery,
) (ListFulfillmentOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListFulfillmentOrdersQueryResponse{}, err
	}

	filtered := h.filter(h.db.WithContext(ctx).Table("fulfillment_orders AS o"), query).
		Session(&gorm.Session{})

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return ListFulfillmentOrdersQueryResponse{}, err
	}

	var rows []summaryRow
	err := filtered.
		Select(`
			o.id,
			o.fulfillment_number,
			o.source_order_id,
			o.status,
			o.priority,
			o.assigned_to,
			o.estimated_ship_date,
			COUNT(i.id) AS item_count,
			COALESCE(SUM(i.quantity_ordered), 0) AS quantity_ordered,
			COALESCE(SUM(i.quantity_picked), 0) AS quantity_picked,
			COALESCE(SUM(i.quantity_packed), 0) AS quantity_packed,
			o.created_at,
			o.updated_at
		`).
		Joins("LEFT JOIN fulfillment_items AS i ON i.order_id = o.id").
		Group("o.id").
		Order("o.created_at DESC, o.id").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Scan(&rows).Error
	if err != nil {
		return ListFulfillmentOrdersQueryResponse{}, err
	}

	items := make([]FulfillmentOrderSummary, 0, len(rows))
	for _, row := range rows {
		summary, convErr := row.toSummary()
		if convErr != nil {
			return ListFulfillmentOrdersQueryResponse{}, convErr
		}
		items = append(items, summary)
	}

	return ListFulfillmentOrdersQueryResponse{
		Items:  items,
		Total:  total,
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}, nil
}

func (h ListFulfillmentOrdersQueryHandler) filter(db *gorm.DB, query ListFulfillmentOrdersQuery) *gorm.DB {
	if s := query.Status(); s != nil {
		db = db.Where("o.status = ?", s.String())
	}
	if p := query.Priority(); p != nil {
		db = db.Where("o.priority = ?", p.String())
	}
	if a := query.AssignedTo(); a != nil {
		db = db.Where("o.assigned_to = ?", *a)
	}
	if from := query.CreatedFrom(); from != nil {
		db = db.Where("o.created_at >= ?", *from)
	}
	if to := query.CreatedTo(); to != nil {
		db = db.Where("o.created_at <= ?", *to)
	}
	return db
}

func (r summaryRow) toSummary() (FulfillmentOrderSummary, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return FulfillmentOrderSummary{}, err
	}
	sourceID, err := kernel.UUIDFromBytes(r.SourceOrderID[:])
	if err != nil {
		return FulfillmentOrderSummary{}, err
	}
	status, err := fulfillment.ParseStatus(r.Status)
	if err != nil {
		return FulfillmentOrderSummary{}, err
	}
	priority, err := fulfillment.ParsePriority(r.Priority)
	if err != nil {
		return FulfillmentOrderSummary{}, err
	}

	return FulfillmentOrderSummary{
		ID:                id,
		Number:            r.FulfillmentNumber,
		SourceOrderID:     sourceID,
		Status:            status,
		Priority:          priority,
		AssignedTo:        r.AssignedTo,
		EstimatedShipDate: r.EstimatedShipDate,
		ItemCount:         r.ItemCount,
		QuantityOrdered:   r.QuantityOrdered,
		QuantityPicked:    r.QuantityPicked,
		QuantityPacked:    r.QuantityPacked,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

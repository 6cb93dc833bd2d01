package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/fulfillment"

	"gorm.io/gorm"
)

type GetFulfillmentStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetFulfillmentStatsQueryHandler(db *gorm.DB) GetFulfillmentStatsQueryHandler {
	return GetFulfillmentStatsQueryHandler{db: db}
}

// Handle returns a count for every status, zero when no order is in it.
func (h GetFulfillmentStatsQueryHandler) Handle(ctx context.Context, query GetFulfillmentStatsQuery) (FulfillmentStats, error) {
	if err := query.Validate(); err != nil {
		return FulfillmentStats{}, err
	}

	stats := FulfillmentStats{CountsByStatus: make(map[fulfillment.Status]int64)}
	for _, s := range fulfillment.AllStatuses() {
		stats.CountsByStatus[s] = 0
	}

	db := h.db.WithContext(ctx)

	rows, err := db.Raw(`
		SELECT status, COUNT(*)
		FROM fulfillment_orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return FulfillmentStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int64
		if err = rows.Scan(&name, &count); err != nil {
			return FulfillmentStats{}, err
		}
		status, parseErr := fulfillment.ParseStatus(name)
		if parseErr != nil {
			return FulfillmentStats{}, parseErr
		}
		stats.CountsByStatus[status] = count
		stats.TotalOrders += count
	}
	if err = rows.Err(); err != nil {
		return FulfillmentStats{}, err
	}

	var avgDays sql.NullFloat64
	var withEstimate, onTime int64
	err = db.Raw(`
		SELECT
			AVG(EXTRACT(EPOCH FROM (actual_delivery_date - created_at)) / 86400.0)::float8,
			COUNT(*) FILTER (WHERE estimated_delivery_date IS NOT NULL),
			COUNT(*) FILTER (WHERE estimated_delivery_date IS NOT NULL
				AND (actual_delivery_date AT TIME ZONE 'UTC')::date <= (estimated_delivery_date AT TIME ZONE 'UTC')::date)
		FROM fulfillment_orders
		WHERE status = ? AND actual_delivery_date IS NOT NULL
	`, fulfillment.StatusDelivered.String()).Row().Scan(&avgDays, &withEstimate, &onTime)
	if err != nil {
		return FulfillmentStats{}, err
	}

	if avgDays.Valid {
		days := avgDays.Float64
		stats.AverageFulfillmentDays = &days
	}
	if withEstimate > 0 {
		rate := float64(onTime) / float64(withEstimate)
		stats.OnTimeDeliveryRate = &rate
	}

	return stats, nil
}

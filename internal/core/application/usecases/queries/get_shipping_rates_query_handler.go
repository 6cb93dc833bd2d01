package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetShippingRatesQueryHandler struct {
	db *gorm.DB
}

func NewGetShippingRatesQueryHandler(db *gorm.DB) GetShippingRatesQueryHandler {
	return GetShippingRatesQueryHandler{db: db}
}

// Handle returns the rates whose weight band contains the weight, cheapest
// first. Both band limits are inclusive.
func (h GetShippingRatesQueryHandler) Handle(ctx context.Context, query GetShippingRatesQuery) ([]ShippingRate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rates := make([]ShippingRate, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			carrier,
			service_code,
			origin_postal_code,
			destination_postal_code,
			weight_min,
			weight_max,
			price,
			delivery_days
		FROM shipping_rates
		WHERE destination_postal_code = ?
			AND weight_min <= ?
			AND weight_max >= ?
		ORDER BY price, carrier, service_code
	`, query.DestinationZip(), query.Weight(), query.Weight()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rate ShippingRate
		err = rows.Scan(
			&rate.Carrier,
			&rate.ServiceCode,
			&rate.OriginPostalCode,
			&rate.DestinationPostalCode,
			&rate.WeightMin,
			&rate.WeightMax,
			&rate.Price,
			&rate.DeliveryDays,
		)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rates, nil
}

package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreateFulfillmentOrderRequest struct {
	SourceOrderID         string     `json:"source_order_id"`
	Priority              string     `json:"priority"`
	AssignedTo            *string    `json:"assigned_to"`
	Instructions          *string    `json:"instructions"`
	EstimatedPickDate     *time.Time `json:"estimated_pick_date"`
	EstimatedShipDate     *time.Time `json:"estimated_ship_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

type UpdateStatusRequest struct {
	Status    string         `json:"status"`
	Notes     *string        `json:"notes"`
	Metadata  map[string]any `json:"metadata"`
	ChangedBy *string        `json:"changed_by"`
}

type PickItemRequest struct {
	Quantity     *int    `json:"quantity"`
	PickedBy     string  `json:"picked_by"`
	LocationCode string  `json:"location_code"`
	BinNumber    string  `json:"bin_number"`
	Notes        *string `json:"notes"`
}

type PackItemRequest struct {
	Quantity *int    `json:"quantity"`
	PackedBy string  `json:"packed_by"`
	Notes    *string `json:"notes"`
}

type DimensionsBody struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ShipPackageRequest struct {
	Carrier         string          `json:"carrier"`
	Method          string          `json:"method"`
	TrackingNumber  string          `json:"tracking_number"`
	Weight          *float64        `json:"weight"`
	Dimensions      *DimensionsBody `json:"dimensions"`
	Cost            *float64        `json:"cost"`
	InsuranceAmount *float64        `json:"insurance_amount"`
}

type ItemResponse struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"fulfillment_order_id"`
	LineNumber      int        `json:"line_number"`
	ProductRef      string     `json:"product_ref"`
	UnitPrice       float64    `json:"unit_price"`
	QuantityOrdered int        `json:"quantity_ordered"`
	QuantityPicked  int        `json:"quantity_picked"`
	QuantityPacked  int        `json:"quantity_packed"`
	QuantityShipped int        `json:"quantity_shipped"`
	PickedBy        *string    `json:"picked_by"`
	PickedAt        *time.Time `json:"picked_at"`
	PackedBy        *string    `json:"packed_by"`
	PackedAt        *time.Time `json:"packed_at"`
	LocationCode    *string    `json:"location_code"`
	BinNumber       *string    `json:"bin_number"`
	Notes           *string    `json:"notes"`
}

type PackageResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"fulfillment_order_id"`
	PackageNumber  string          `json:"package_number"`
	Carrier        string          `json:"carrier"`
	TrackingNumber string          `json:"tracking_number"`
	Weight         *float64        `json:"weight"`
	Dimensions     *DimensionsBody `json:"dimensions"`
	ShippedAt      time.Time       `json:"shipped_at"`
	DeliveredAt    *time.Time      `json:"delivered_at"`
}

type StatusChangeResponse struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	PreviousStatus *string        `json:"previous_status"`
	ChangedBy      *string        `json:"changed_by"`
	Notes          *string        `json:"notes"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ChangedAt      time.Time      `json:"changed_at"`
}

type ShippingResponse struct {
	Method          string   `json:"method"`
	Carrier         string   `json:"carrier"`
	TrackingNumber  string   `json:"tracking_number"`
	Cost            *float64 `json:"cost"`
	InsuranceAmount *float64 `json:"insurance_amount"`
}

type OrderResponse struct {
	ID                    string                 `json:"id"`
	FulfillmentNumber     string                 `json:"fulfillment_number"`
	SourceOrderID         string                 `json:"source_order_id"`
	Status                string                 `json:"status"`
	Priority              string                 `json:"priority"`
	AssignedTo            *string                `json:"assigned_to"`
	Instructions          *string                `json:"instructions"`
	EstimatedPickDate     *time.Time             `json:"estimated_pick_date"`
	ActualPickDate        *time.Time             `json:"actual_pick_date"`
	EstimatedShipDate     *time.Time             `json:"estimated_ship_date"`
	ActualShipDate        *time.Time             `json:"actual_ship_date"`
	EstimatedDeliveryDate *time.Time             `json:"estimated_delivery_date"`
	ActualDeliveryDate    *time.Time             `json:"actual_delivery_date"`
	Shipping              *ShippingResponse      `json:"shipping"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	Items                 []ItemResponse         `json:"items"`
	Packages              []PackageResponse      `json:"packages"`
	StatusHistory         []StatusChangeResponse `json:"status_history"`
}

type OrderSummaryResponse struct {
	ID                string     `json:"id"`
	FulfillmentNumber string     `json:"fulfillment_number"`
	SourceOrderID     string     `json:"source_order_id"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	AssignedTo        *string    `json:"assigned_to"`
	EstimatedShipDate *time.Time `json:"estimated_ship_date"`
	ItemCount         int        `json:"item_count"`
	QuantityOrdered   int        `json:"quantity_ordered"`
	QuantityPicked    int        `json:"quantity_picked"`
	QuantityPacked    int        `json:"quantity_packed"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type OrderListResponse struct {
	Items  []OrderSummaryResponse `json:"items"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type ShippingRateResponse struct {
	Carrier               string  `json:"carrier"`
	ServiceCode           string  `json:"service_code"`
	OriginPostalCode      string  `json:"origin_postal_code"`
	DestinationPostalCode string  `json:"destination_postal_code"`
	WeightMin             float64 `json:"weight_min"`
	WeightMax             float64 `json:"weight_max"`
	Price                 float64 `json:"price"`
	DeliveryDays          *int    `json:"delivery_days"`
}

type StatsResponse struct {
	TotalOrders            int64            `json:"total_orders"`
	CountsByStatus         map[string]int64 `json:"counts_by_status"`
	AverageFulfillmentDays *float64         `json:"average_fulfillment_days"`
	OnTimeDeliveryRate     *float64         `json:"on_time_delivery_rate"`
}

func toItemResponse(i *fulfillment.Item) ItemResponse {
	r := ItemResponse{
		ID:              i.ID().String(),
		OrderID:         i.OrderID().String(),
		LineNumber:      i.LineNumber(),
		ProductRef:      i.ProductRef(),
		UnitPrice:       i.UnitPrice(),
		QuantityOrdered: i.QuantityOrdered(),
		QuantityPicked:  i.QuantityPicked(),
		QuantityPacked:  i.QuantityPacked(),
		QuantityShipped: i.QuantityShipped(),
		PickedBy:        i.PickedBy(),
		PickedAt:        i.PickedAt(),
		PackedBy:        i.PackedBy(),
		PackedAt:        i.PackedAt(),
		Notes:           i.Notes(),
	}
	if loc := i.Location(); loc != nil {
		code := loc.LocationCode()
		r.LocationCode = &code
		if bin := loc.BinNumber(); bin != "" {
			r.BinNumber = &bin
		}
	}
	return r
}

func toPackageResponse(p *fulfillment.Package) PackageResponse {
	r := PackageResponse{
		ID:             p.ID().String(),
		OrderID:        p.OrderID().String(),
		PackageNumber:  p.PackageNumber(),
		Carrier:        p.Carrier(),
		TrackingNumber: p.TrackingNumber(),
		Weight:         p.Weight(),
		ShippedAt:      p.ShippedAt(),
		DeliveredAt:    p.DeliveredAt(),
	}
	if d := p.Dimensions(); d != nil {
		r.Dimensions = &DimensionsBody{Length: d.Length, Width: d.Width, Height: d.Height}
	}
	return r
}

func toStatusChangeResponse(c *fulfillment.StatusChange) StatusChangeResponse {
	r := StatusChangeResponse{
		ID:        c.ID().String(),
		Status:    c.Status().String(),
		ChangedBy: c.ChangedBy(),
		Notes:     c.Notes(),
		Metadata:  c.Metadata(),
		ChangedAt: c.ChangedAt(),
	}
	if prev := c.PreviousStatus(); prev != nil {
		s := prev.String()
		r.PreviousStatus = &s
	}
	return r
}

func toOrderResponse(d fulfillment.OrderDetails) OrderResponse {
	o := d.Order
	schedule := o.Schedule()
	r := OrderResponse{
		ID:                    o.ID().String(),
		FulfillmentNumber:     o.Number(),
		SourceOrderID:         o.SourceOrderID().String(),
		Status:                o.Status().String(),
		Priority:              o.Priority().String(),
		AssignedTo:            o.AssignedTo(),
		Instructions:          o.Instructions(),
		EstimatedPickDate:     schedule.EstimatedPickDate,
		ActualPickDate:        o.ActualPickDate(),
		EstimatedShipDate:     schedule.EstimatedShipDate,
		ActualShipDate:        o.ActualShipDate(),
		EstimatedDeliveryDate: schedule.EstimatedDeliveryDate,
		ActualDeliveryDate:    o.ActualDeliveryDate(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Items:                 make([]ItemResponse, 0, len(o.Items())),
		Packages:              make([]PackageResponse, 0, len(o.Packages())),
		StatusHistory:         make([]StatusChangeResponse, 0, len(d.History)),
	}
	if s := o.Shipping(); s != nil {
		r.Shipping = &ShippingResponse{
			Method:          s.Method,
			Carrier:         s.Carrier,
			TrackingNumber:  s.TrackingNumber,
			Cost:            s.Cost,
			InsuranceAmount: s.InsuranceAmount,
		}
	}
	for _, i := range o.Items() {
		r.Items = append(r.Items, toItemResponse(i))
	}
	for _, p := range o.Packages() {
		r.Packages = append(r.Packages, toPackageResponse(p))
	}
	for _, c := range d.History {
		r.StatusHistory = append(r.StatusHistory, toStatusChangeResponse(c))
	}
	return r
}

func toOrderListResponse(page queries.ListFulfillmentOrdersQueryResponse) OrderListResponse {
	r := OrderListResponse{
		Items:  make([]OrderSummaryResponse, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, s := range page.Items {
		r.Items = append(r.Items, OrderSummaryResponse{
			ID:                s.ID.String(),
			FulfillmentNumber: s.Number,
			SourceOrderID:     s.SourceOrderID.String(),
			Status:            s.Status.String(),
			Priority:          s.Priority.String(),
			AssignedTo:        s.AssignedTo,
			EstimatedShipDate: s.EstimatedShipDate,
			ItemCount:         s.ItemCount,
			QuantityOrdered:   s.QuantityOrdered,
			QuantityPicked:    s.QuantityPicked,
			QuantityPacked:    s.QuantityPacked,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		})
	}
	return r
}

func toShippingRateResponses(rates []queries.ShippingRate) []ShippingRateResponse {
	out := make([]ShippingRateResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, ShippingRateResponse(rate))
	}
	return out
}

func toStatsResponse(s queries.FulfillmentStats) StatsResponse {
	counts := make(map[string]int64, len(s.CountsByStatus))
	for status, n := range s.CountsByStatus {
		counts[status.String()] = n
	}
	return StatsResponse{
		TotalOrders:            s.TotalOrders,
		CountsByStatus:         counts,
		AverageFulfillmentDays: s.AverageFulfillmentDays,
		OnTimeDeliveryRate:     s.OnTimeDeliveryRate,
	}
}

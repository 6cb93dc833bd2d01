package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handler is implemented by every command and query handler.
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder   Handler[commands.CreateFulfillmentOrderCommand, fulfillment.OrderDetails]
	UpdateStatus  Handler[commands.UpdateFulfillmentStatusCommand, fulfillment.OrderDetails]
	PickItem      Handler[commands.PickItemCommand, *fulfillment.Item]
	PackItem      Handler[commands.PackItemCommand, *fulfillment.Item]
	ShipPackage   Handler[commands.ShipPackageCommand, *fulfillment.Package]
	GetOrder      Handler[queries.GetFulfillmentOrderQuery, fulfillment.OrderDetails]
	ListOrders    Handler[queries.ListFulfillmentOrdersQuery, queries.ListFulfillmentOrdersQueryResponse]
	ShippingRates Handler[queries.GetShippingRatesQuery, []queries.ShippingRate]
	Stats         Handler[queries.GetFulfillmentStatsQuery, queries.FulfillmentStats]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger.With("component", "http_server")}
}

// Register mounts the API routes under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/fulfillment-orders", s.CreateFulfillmentOrder)
	api.GET("/fulfillment-orders", s.ListFulfillmentOrders)
	api.GET("/fulfillment-orders/:id", s.GetFulfillmentOrder)
	api.PUT("/fulfillment-orders/:id/status", s.UpdateFulfillmentStatus)
	api.POST("/fulfillment-orders/:id/ship", s.ShipPackage)

	api.POST("/fulfillment-items/:id/pick", s.PickItem)
	api.POST("/fulfillment-items/:id/pack", s.PackItem)

	api.GET("/shipping-rates", s.GetShippingRates)
	api.GET("/fulfillment-stats", s.GetFulfillmentStats)
}

// CreateFulfillmentOrder handles POST /api/v1/fulfillment-orders.
func (s *Server) CreateFulfillmentOrder(c echo.Context) error {
	var req CreateFulfillmentOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sourceOrderID, err := kernel.UUIDFromString(req.SourceOrderID)
	if err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("source_order_id", err))
	}

	cmd, err := commands.NewCreateFulfillmentOrderCommand(
		sourceOrderID,
		req.Priority,
		req.AssignedTo,
		req.Instructions,
		fulfillment.Schedule{
			EstimatedPickDate:     req.EstimatedPickDate,
			EstimatedShipDate:     req.EstimatedShipDate,
			EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		},
	)
	if err != nil {
		return s.writeError(c, err)
	}

	details, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(details))
}

// ListFulfillmentOrders handles GET /api/v1/fulfillment-orders.
func (s *Server) ListFulfillmentOrders(c echo.Context) error {
	filter := queries.ListFilter{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssignedTo: c.QueryParam("assigned_to"),
	}

	var err error
	if filter.CreatedFrom, err = timeParam(c, "created_from"); err != nil {
		return s.writeError(c, err)
	}
	if filter.CreatedTo, err = timeParam(c, "created_to"); err != nil {
		return s.writeError(c, err)
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return s.writeError(c, err)
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewListFulfillmentOrdersQuery(filter, limit, offset)
	if err != nil {
		return s.writeError(c, err)
	}

	page, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderListResponse(page))
}

// GetFulfillmentOrder handles GET /api/v1/fulfillment-orders/:id.
func (s *Server) GetFulfillmentOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetFulfillmentOrderQuery(id)
	if err != nil {
		return s.writeError(c, err)
	}

	details, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(details))
}

// UpdateFulfillmentStatus handles PUT /api/v1/fulfillment-orders/:id/status.
func (s *Server) UpdateFulfillmentStatus(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req UpdateStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUpdateFulfillmentStatusCommand(id, req.Status, req.Notes, req.Metadata, req.ChangedBy)
	if err != nil {
		return s.writeError(c, err)
	}

	details, err := s.h.UpdateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(details))
}

// ShipPackage handles POST /api/v1/fulfillment-orders/:id/ship.
func (s *Server) ShipPackage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req ShipPackageRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	shipment := fulfillment.ShipmentInput{
		Carrier:         req.Carrier,
		Method:          req.Method,
		TrackingNumber:  req.TrackingNumber,
		Weight:          req.Weight,
		Cost:            req.Cost,
		InsuranceAmount: req.InsuranceAmount,
	}
	if req.Dimensions != nil {
		d, dimErr := fulfillment.NewDimensions(req.Dimensions.Length, req.Dimensions.Width, req.Dimensions.Height)
		if dimErr != nil {
			return s.writeError(c, dimErr)
		}
		shipment.Dimensions = &d
	}

	cmd, err := commands.NewShipPackageCommand(id, shipment)
	if err != nil {
		return s.writeError(c, err)
	}

	pkg, err := s.h.ShipPackage.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toPackageResponse(pkg))
}

// PickItem handles POST /api/v1/fulfillment-items/:id/pick.
func (s *Server) PickItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req PickItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Quantity == nil {
		return s.writeError(c, errs.NewValueIsRequiredError("quantity"))
	}

	cmd, err := commands.NewPickItemCommand(id, *req.Quantity, req.PickedBy, req.LocationCode, req.BinNumber, req.Notes)
	if err != nil {
		return s.writeError(c, err)
	}

	item, err := s.h.PickItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// PackItem handles POST /api/v1/fulfillment-items/:id/pack.
func (s *Server) PackItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req PackItemRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Quantity == nil {
		return s.writeError(c, errs.NewValueIsRequiredError("quantity"))
	}

	cmd, err := commands.NewPackItemCommand(id, *req.Quantity, req.PackedBy, req.Notes)
	if err != nil {
		return s.writeError(c, err)
	}

	item, err := s.h.PackItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// GetShippingRates handles GET /api/v1/shipping-rates?zip=&weight=.
func (s *Server) GetShippingRates(c echo.Context) error {
	var weight float64
	if raw := c.QueryParam("weight"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("weight", err))
		}
		weight = w
	}

	query, err := queries.NewGetShippingRatesQuery(c.QueryParam("zip"), weight)
	if err != nil {
		return s.writeError(c, err)
	}

	rates, err := s.h.ShippingRates.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toShippingRateResponses(rates))
}

// GetFulfillmentStats handles GET /api/v1/fulfillment-stats.
func (s *Server) GetFulfillmentStats(c echo.Context) error {
	stats, err := s.h.Stats.Handle(c.Request().Context(), queries.NewGetFulfillmentStatsQuery())
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

func idParam(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}

func timeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &t, nil
}

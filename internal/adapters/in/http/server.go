// Package http exposes the dispatch engine over a REST API.
// Handlers translate between the wire format and the application's commands
// and queries, and map the error taxonomy onto HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	oapimiddleware "github.com/oapi-codegen/echo-middleware"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	registerDriverHandler commands.RegisterDriverCommandHandler
	createOrderHandler    commands.CreateOrderCommandHandler
	assignDriverHandler   commands.AssignDriverCommandHandler
	completeOrderHandler  commands.CompleteOrderCommandHandler
	reportLocationHandler commands.ReportLocationCommandHandler

	// Query handlers
	rankedDriversHandler queries.RankedDriversQueryHandler
	currentOrderHandler  queries.CurrentOrderForDriverQueryHandler
	fleetSnapshotHandler queries.FleetSnapshotQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	registerDriverHandler commands.RegisterDriverCommandHandler,
	createOrderHandler commands.CreateOrderCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	rankedDriversHandler queries.RankedDriversQueryHandler,
	currentOrderHandler queries.CurrentOrderForDriverQueryHandler,
	fleetSnapshotHandler queries.FleetSnapshotQueryHandler,
) *Server {
	return &Server{
		registerDriverHandler: registerDriverHandler,
		createOrderHandler:    createOrderHandler,
		assignDriverHandler:   assignDriverHandler,
		completeOrderHandler:  completeOrderHandler,
		reportLocationHandler: reportLocationHandler,
		rankedDriversHandler:  rankedDriversHandler,
		currentOrderHandler:   currentOrderHandler,
		fleetSnapshotHandler:  fleetSnapshotHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
// Requests under /api are validated against the embedded OpenAPI contract
// before they reach a handler.
func (s *Server) RegisterRoutes(e *echo.Echo) error {
	spec, err := loadOpenAPISpec()
	if err != nil {
		return err
	}

	api := e.Group("/api", oapimiddleware.OapiRequestValidator(spec))

	api.POST("/drivers", s.RegisterDriver)
	api.PUT("/drivers/:driverID/location", s.ReportLocation)
	api.GET("/drivers/:driverID/current-order", s.GetCurrentOrder)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderID/available-drivers", s.GetRankedDrivers)
	api.PUT("/orders/:orderID/assign/:driverID", s.AssignDriver)
	api.PUT("/orders/:orderID/reassign/:driverID", s.ReassignDriver)
	api.PUT("/orders/:orderID/complete", s.CompleteOrder)

	api.GET("/fleet", s.GetFleetSnapshot)

	e.GET("/health", s.Health)

	return nil
}

// ErrorResponse is the wire form of a failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RegisterDriverRequest is the payload for driver registration.
type RegisterDriverRequest struct {
	OwnerEmail string `json:"owner_email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// CreateOrderRequest is the payload for order creation.
type CreateOrderRequest struct {
	OwnerEmail    string  `json:"owner_email"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Address       string  `json:"address"`
	Items         string  `json:"items"`
	Price         float64 `json:"price"`
}

// ReportLocationRequest is the payload for a device position report.
type ReportLocationRequest struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ReportedAt time.Time `json:"reported_at"`
}

// CreatedResponse carries the identifier of a newly created resource.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// ReportLocationResponse reports whether a position report was applied.
// Applied is false when a fresher report was already stored.
type ReportLocationResponse struct {
	Applied bool `json:"applied"`
}

// RankedDriverResponse is one candidate in the available-drivers ranking.
type RankedDriverResponse struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Phone      string       `json:"phone"`
	Position   *GeoPointDTO `json:"position,omitempty"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
}

// CurrentOrderResponse is the delivery the polling driver should run.
type CurrentOrderResponse struct {
	ID            int64        `json:"id"`
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	Address       string       `json:"address"`
	Items         string       `json:"items"`
	Price         float64      `json:"price"`
	Pickup        GeoPointDTO  `json:"pickup"`
	Drop          *GeoPointDTO `json:"drop,omitempty"`
}

// FleetDriverResponse is one driver in the fleet snapshot.
type FleetDriverResponse struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
	IsAvailable    bool         `json:"is_available"`
	Position       *GeoPointDTO `json:"position,omitempty"`
	ReportedAt     *time.Time   `json:"reported_at,omitempty"`
	CurrentOrderID *int64       `json:"current_order_id,omitempty"`
}

// FleetOrderResponse is one order in the fleet snapshot.
type FleetOrderResponse struct {
	ID           int64   `json:"id"`
	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	Status       string  `json:"status"`
	DriverID     *int64  `json:"driver_id,omitempty"`
	DriverName   *string `json:"driver_name,omitempty"`
}

// FleetSnapshotResponse is the dashboard payload: the account's orders and
// drivers in one envelope.
type FleetSnapshotResponse struct {
	Orders  []FleetOrderResponse  `json:"orders"`
	Drivers []FleetDriverResponse `json:"drivers"`
}

// GeoPointDTO is the wire form of a coordinate pair.
type GeoPointDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RegisterDriver handles POST /api/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var request RegisterDriverRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewRegisterDriverCommand(
		request.OwnerEmail, request.Name, request.Phone, request.Email,
	)
	if err != nil {
		return domainError(ctx, err)
	}

	id, err := s.registerDriverHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: id.Value()})
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewCreateOrderCommand(
		request.OwnerEmail,
		request.CustomerName,
		request.CustomerPhone,
		request.Address,
		request.Items,
		request.Price,
	)
	if err != nil {
		return domainError(ctx, err)
	}

	id, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: id.Value()})
}

// GetRankedDrivers handles GET /api/orders/:orderID/available-drivers.
func (s *Server) GetRankedDrivers(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order identifier")
	}

	query, err := queries.NewRankedDriversQuery(orderID)
	if err != nil {
		return domainError(ctx, err)
	}

	ranked, err := s.rankedDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]RankedDriverResponse, len(ranked))
	for i, candidate := range ranked {
		entry := RankedDriverResponse{
			ID:    candidate.DriverID.Value(),
			Name:  candidate.Name,
			Phone: candidate.Phone,
		}
		if candidate.Located {
			entry.Position = &GeoPointDTO{
				Latitude:  candidate.Position.Latitude(),
				Longitude: candidate.Position.Longitude(),
			}
			km := candidate.DistanceKm
			entry.DistanceKm = &km
		}
		response[i] = entry
	}

	return ctx.JSON(http.StatusOK, response)
}

// AssignDriver handles PUT /api/orders/:orderID/assign/:driverID.
func (s *Server) AssignDriver(ctx echo.Context) error {
	return s.assign(ctx, services.AssignmentInitial)
}

// ReassignDriver handles PUT /api/orders/:orderID/reassign/:driverID.
func (s *Server) ReassignDriver(ctx echo.Context) error {
	return s.assign(ctx, services.AssignmentReassign)
}

func (s *Server) assign(ctx echo.Context, mode services.AssignmentMode) error {
	orderID, err := pathID(ctx, "orderID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order identifier")
	}
	driverID, err := pathID(ctx, "driverID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid driver identifier")
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, mode)
	if err != nil {
		return domainError(ctx, err)
	}

	if err := s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles PUT /api/orders/:orderID/complete.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order identifier")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return domainError(ctx, err)
	}

	if err := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportLocation handles PUT /api/drivers/:driverID/location.
func (s *Server) ReportLocation(ctx echo.Context) error {
	driverID, err := pathID(ctx, "driverID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid driver identifier")
	}

	var request ReportLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewReportLocationCommand(
		driverID, request.Latitude, request.Longitude, request.ReportedAt,
	)
	if err != nil {
		return domainError(ctx, err)
	}

	applied, err := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ReportLocationResponse{Applied: applied})
}

// GetCurrentOrder handles GET /api/drivers/:driverID/current-order.
// An idle driver receives 204 No Content.
func (s *Server) GetCurrentOrder(ctx echo.Context) error {
	driverID, err := pathID(ctx, "driverID")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid driver identifier")
	}

	query, err := queries.NewCurrentOrderForDriverQuery(driverID)
	if err != nil {
		return domainError(ctx, err)
	}

	current, err := s.currentOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}
	if current == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	response := CurrentOrderResponse{
		ID:            current.OrderID.Value(),
		CustomerName:  current.CustomerName,
		CustomerPhone: current.CustomerPhone,
		Address:       current.Address,
		Items:         current.Items,
		Price:         current.Price,
		Pickup: GeoPointDTO{
			Latitude:  current.Pickup.Latitude(),
			Longitude: current.Pickup.Longitude(),
		},
	}
	if current.Drop != nil {
		response.Drop = &GeoPointDTO{
			Latitude:  current.Drop.Latitude(),
			Longitude: current.Drop.Longitude(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetFleetSnapshot handles GET /api/fleet?owner_email=...
func (s *Server) GetFleetSnapshot(ctx echo.Context) error {
	query, err := queries.NewFleetSnapshotQuery(ctx.QueryParam("owner_email"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "owner_email query parameter is required")
	}

	fleet, err := s.fleetSnapshotHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := FleetSnapshotResponse{
		Orders:  make([]FleetOrderResponse, len(fleet.Orders)),
		Drivers: make([]FleetDriverResponse, len(fleet.Drivers)),
	}

	for i, entry := range fleet.Orders {
		item := FleetOrderResponse{
			ID:           entry.OrderID.Value(),
			CustomerName: entry.CustomerName,
			Address:      entry.Address,
			Status:       entry.Status.String(),
			DriverName:   entry.DriverName,
		}
		if entry.DriverID != nil {
			driverID := entry.DriverID.Value()
			item.DriverID = &driverID
		}
		response.Orders[i] = item
	}

	for i, entry := range fleet.Drivers {
		item := FleetDriverResponse{
			ID:          entry.DriverID.Value(),
			Name:        entry.Name,
			Phone:       entry.Phone,
			IsAvailable: entry.IsAvailable,
			ReportedAt:  entry.ReportedAt,
		}
		if entry.Position != nil {
			item.Position = &GeoPointDTO{
				Latitude:  entry.Position.Latitude(),
				Longitude: entry.Position.Longitude(),
			}
		}
		if entry.CurrentOrderID != nil {
			orderID := entry.CurrentOrderID.Value()
			item.CurrentOrderID = &orderID
		}
		response.Drivers[i] = item
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses a positive numeric identifier from a path parameter.
func pathID(ctx echo.Context, name string) (kernel.ID, error) {
	raw, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		return kernel.ID{}, err
	}
	return kernel.NewID(raw)
}

// domainError maps the error taxonomy onto HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflictingState), errors.Is(err, errs.ErrInvalidTransition):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		return errorJSON(ctx, http.StatusBadGateway, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

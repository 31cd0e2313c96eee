package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
//
// The delivery address is resolved through the geocoder; when the geocoding
// service is unreachable or finds no match, the order is stored without a
// drop location and proximity ranking later falls back to the pickup point.
// Orders are created in Pending status with the default depot pickup.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// Requires an OrderUoWFactory for transactional persistence and a Geocoder
// for address resolution.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, geocoder ports.Geocoder, logger *slog.Logger) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		logger:     logger,
	}
}

// Handle processes the order creation command.
// Returns the store-assigned identifier of the new order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	drop, err := h.resolveDrop(ctx, cmd.Address())
	if err != nil {
		return kernel.ID{}, err
	}

	newOrder, err := order.NewOrder(
		cmd.OwnerEmail(),
		cmd.CustomerName(),
		cmd.CustomerPhone(),
		cmd.Address(),
		cmd.Items(),
		cmd.Price(),
		order.DefaultPickup(),
		drop,
	)
	if err != nil {
		return kernel.ID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return newOrder.ID(), nil
}

// resolveDrop geocodes the delivery address. A missing match or an
// unreachable geocoding service degrades to an absent drop location instead
// of failing order creation.
func (h CreateOrderCommandHandler) resolveDrop(ctx context.Context, address string) (*kernel.GeoPoint, error) {
	point, err := h.geocoder.Geocode(ctx, address)
	if err == nil {
		return &point, nil
	}

	if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrUpstreamUnavailable) {
		h.logger.WarnContext(ctx, "address could not be resolved, storing order without drop location",
			"address", address, "error", err)
		return nil, nil
	}

	return nil, err
}

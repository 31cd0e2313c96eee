package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CurrentOrderForDriverQueryHandler serves the driver polling loop: it
// returns the Assigned order referencing the driver, or nil when the driver
// has no work. The driver lookup separates the two outcomes: only an
// unknown driver is an error, an idle one reads as an empty result.
type CurrentOrderForDriverQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewCurrentOrderForDriverQueryHandler creates a handler for current-order
// queries. Requires a unit of work factory for repository access.
func NewCurrentOrderForDriverQueryHandler(uowFactory ports.UnitOfWorkFactory) CurrentOrderForDriverQueryHandler {
	return CurrentOrderForDriverQueryHandler{uowFactory: uowFactory}
}

// Handle executes the current-order query.
// Returns nil without error when the driver is idle.
func (h CurrentOrderForDriverQueryHandler) Handle(
	ctx context.Context,
	query CurrentOrderForDriverQuery,
) (*CurrentOrderForDriverQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repos := h.uowFactory.Create()

	if _, err := repos.DriverRepository().Get(ctx, query.DriverID()); err != nil {
		return nil, err
	}

	o, err := repos.OrderRepository().GetAssignedToDriver(ctx, query.DriverID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &CurrentOrderForDriverQueryResponse{
		OrderID:       o.ID(),
		CustomerName:  o.CustomerName(),
		CustomerPhone: o.CustomerPhone(),
		Address:       o.Address(),
		Items:         o.Items(),
		Price:         o.Price(),
		Pickup:        o.Pickup(),
		Drop:          o.Drop(),
	}, nil
}

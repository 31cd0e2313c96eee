package queries

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RankedDriversQueryHandler lists the assignment candidates for an order:
// the available drivers of the order's owner, ordered by distance to the
// order's reference point. The ordering itself is the ProximityRanker
// domain service; the handler loads the aggregates and shapes the read
// model.
//
// An empty ranking is a normal result: it means no driver of this account is
// currently free.
type RankedDriversQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewRankedDriversQueryHandler creates a handler for driver ranking queries.
// Requires a unit of work factory for repository access.
func NewRankedDriversQueryHandler(uowFactory ports.UnitOfWorkFactory) RankedDriversQueryHandler {
	return RankedDriversQueryHandler{uowFactory: uowFactory}
}

// Handle executes the ranking query.
//
// Fails with an object-not-found error when the order does not exist and
// with a conflicting state error when the order was already delivered.
// Pending and Assigned orders both rank candidates, so the same query
// serves initial assignment and reassignment. Drivers without a known
// position are listed after all located drivers, each group in ascending
// driver ID order.
func (h RankedDriversQueryHandler) Handle(
	ctx context.Context,
	query RankedDriversQuery,
) ([]RankedDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repos := h.uowFactory.Create()

	o, err := repos.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if o.Status() == order.Delivered {
		return nil, errs.NewConflictingStateError(
			"order",
			fmt.Sprintf("order %s can no longer be assigned", o.ID()),
		)
	}

	available, err := repos.DriverRepository().GetAllAvailable(ctx, o.OwnerEmail())
	if err != nil {
		return nil, err
	}

	ranked, err := services.NewProximityRanker().Rank(available, o.ReferencePoint())
	if err != nil {
		return nil, err
	}

	response := make([]RankedDriversQueryResponse, 0, len(ranked))
	for _, entry := range ranked {
		response = append(response, RankedDriversQueryResponse{
			DriverID:   entry.Driver.ID(),
			Name:       entry.Driver.Name(),
			Phone:      entry.Driver.Phone(),
			Position:   entry.Driver.Location(),
			DistanceKm: entry.DistanceKm,
			Located:    entry.Located,
		})
	}

	return response, nil
}

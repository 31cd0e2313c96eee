// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRankedDriversQueryIsNotConstructed = errors.New(
	"RankedDriversQuery must be created via NewRankedDriversQuery constructor",
)

// RankedDriversQuery retrieves the available drivers for an order, ordered
// by distance to the order's reference point (the drop location when it was
// resolved, otherwise the pickup).
//
// Example:
//
//	query, _ := NewRankedDriversQuery(orderID)
//	handler := NewRankedDriversQueryHandler(db)
//
//	drivers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to rank drivers: %w", err)
//	}
//	for _, d := range drivers {
//	    fmt.Printf("%s: %.1f km\n", d.Name, d.DistanceKm)
//	}
type RankedDriversQuery struct {
	orderID kernel.ID

	guard guard.ConstructorGuard
}

// NewRankedDriversQuery creates a query to rank available drivers for the
// given order.
func NewRankedDriversQuery(orderID kernel.ID) (RankedDriversQuery, error) {
	if err := orderID.Validate(); err != nil {
		return RankedDriversQuery{}, err
	}

	return RankedDriversQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrRankedDriversQueryIsNotConstructed if validation fails.
func (q RankedDriversQuery) Validate() error {
	return q.guard.Validate(ErrRankedDriversQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to rank drivers for.
func (q RankedDriversQuery) OrderID() kernel.ID {
	return q.orderID
}

// RankedDriversQueryResponse represents one candidate driver in the ranking.
// Located reports whether the driver had a known position; unlocated drivers
// carry a zero distance and appear after all located ones.
type RankedDriversQueryResponse struct {
	DriverID   kernel.ID
	Name       string
	Phone      string
	Position   *kernel.GeoPoint
	DistanceKm float64
	Located    bool
}

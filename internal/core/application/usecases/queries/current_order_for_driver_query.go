package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCurrentOrderForDriverQueryIsNotConstructed = errors.New(
	"CurrentOrderForDriverQuery must be created via NewCurrentOrderForDriverQuery constructor",
)

// CurrentOrderForDriverQuery retrieves the order a driver is currently
// carrying. Drivers poll this to pick up new work; an idle driver receives
// an empty result, not an error.
type CurrentOrderForDriverQuery struct {
	driverID kernel.ID

	guard guard.ConstructorGuard
}

// NewCurrentOrderForDriverQuery creates a query for the driver's current order.
func NewCurrentOrderForDriverQuery(driverID kernel.ID) (CurrentOrderForDriverQuery, error) {
	if err := driverID.Validate(); err != nil {
		return CurrentOrderForDriverQuery{}, err
	}

	return CurrentOrderForDriverQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCurrentOrderForDriverQueryIsNotConstructed if validation fails.
func (q CurrentOrderForDriverQuery) Validate() error {
	return q.guard.Validate(ErrCurrentOrderForDriverQueryIsNotConstructed)
}

// DriverID returns the identifier of the polling driver.
func (q CurrentOrderForDriverQuery) DriverID() kernel.ID {
	return q.driverID
}

// CurrentOrderForDriverQueryResponse carries everything the driver's device
// needs to run the delivery: customer contact details, the raw address, and
// the resolved coordinates when geocoding succeeded.
type CurrentOrderForDriverQueryResponse struct {
	OrderID       kernel.ID
	CustomerName  string
	CustomerPhone string
	Address       string
	Items         string
	Price         float64
	Pickup        kernel.GeoPoint
	Drop          *kernel.GeoPoint
}

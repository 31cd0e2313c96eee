package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrFleetSnapshotQueryIsNotConstructed = errors.New(
		"FleetSnapshotQuery must be created via NewFleetSnapshotQuery constructor",
	)
	ErrOwnerEmailIsRequired = errors.New("ownerEmail is required")
)

// FleetSnapshotQuery retrieves the full state of a dispatcher's account for
// the tracking dashboard: every order with its status and assigned driver,
// and every driver with availability, last known position, when that
// position was reported, and the order being carried. Dashboards poll this
// query to refresh the map and the order board together.
type FleetSnapshotQuery struct {
	ownerEmail string

	guard guard.ConstructorGuard
}

// NewFleetSnapshotQuery creates a query for the fleet of the given
// dispatcher account.
func NewFleetSnapshotQuery(ownerEmail string) (FleetSnapshotQuery, error) {
	if ownerEmail == "" {
		return FleetSnapshotQuery{}, ErrOwnerEmailIsRequired
	}

	return FleetSnapshotQuery{
		ownerEmail: ownerEmail,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrFleetSnapshotQueryIsNotConstructed if validation fails.
func (q FleetSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrFleetSnapshotQueryIsNotConstructed)
}

// OwnerEmail returns the dispatcher account whose fleet is requested.
func (q FleetSnapshotQuery) OwnerEmail() string {
	return q.ownerEmail
}

// FleetDriverSnapshot represents one driver in the fleet snapshot.
// Position and ReportedAt are nil for drivers that never reported or whose
// position was swept as stale; CurrentOrderID is nil for idle drivers.
type FleetDriverSnapshot struct {
	DriverID       kernel.ID
	Name           string
	Phone          string
	IsAvailable    bool
	Position       *kernel.GeoPoint
	ReportedAt     *time.Time
	CurrentOrderID *kernel.ID
}

// FleetOrderSnapshot represents one order in the fleet snapshot. DriverID
// and DriverName are nil while the order is still pending.
type FleetOrderSnapshot struct {
	OrderID      kernel.ID
	CustomerName string
	Address      string
	Status       order.Status
	DriverID     *kernel.ID
	DriverName   *string
}

// FleetSnapshotQueryResponse is the dashboard read model: the account's
// orders and drivers in one payload, each sorted by identifier.
type FleetSnapshotQueryResponse struct {
	Orders  []FleetOrderSnapshot
	Drivers []FleetDriverSnapshot
}

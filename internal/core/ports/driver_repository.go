// Package ports defines the contracts between the application core and
// infrastructure adapters: repositories, transaction control, geocoding,
// and the live position cache. These interfaces enable dependency inversion
// and testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
// Provides methods for storing, retrieving, and querying drivers with their
// availability, live position, and current order.
type DriverRepository interface {
	// Add persists a new driver aggregate and assigns its store-generated
	// identifier via SetID. The driver must be valid and unpersisted.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	// The driver must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Reserve persists a booking with a compare-and-set on availability:
	// the stored row is updated only while it is still marked available.
	// When another transaction booked the driver first, Reserve returns a
	// conflicting state error and the aggregate must be discarded.
	//
	// The aggregate must already be booked in memory via Driver.Book.
	Reserve(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its identifier.
	// Returns an object-not-found error when no such driver exists.
	Get(ctx context.Context, id kernel.ID) (*driver.Driver, error)

	// GetAllAvailable retrieves the available drivers of the given
	// dispatcher account. Drivers carrying an order are excluded.
	// An empty fleet is a normal result, not an error.
	GetAllAvailable(ctx context.Context, ownerEmail string) ([]*driver.Driver, error)

	// GetAllWithStaleLocation retrieves drivers whose stored position was
	// reported before the cutoff, for the staleness sweep.
	GetAllWithStaleLocation(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error)
}

package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders based on
// their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate and assigns its store-generated
	// identifier via SetID. The order must be valid and unpersisted.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its identifier.
	// Returns an object-not-found error when no such order exists.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetForUpdate retrieves an order aggregate by its identifier and
	// locks its row until the surrounding transaction ends. Transactions
	// that change the same order serialize on this lock; the second one
	// reads the state the first one committed.
	GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetAssignedToDriver retrieves the order currently assigned to the
	// given driver. Returns an object-not-found error when the driver
	// carries no order.
	GetAssignedToDriver(ctx context.Context, driverID kernel.ID) (*order.Order, error)
}

package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// DriverPosition is the cached live position of a driver.
type DriverPosition struct {
	DriverID   kernel.ID
	Point      kernel.GeoPoint
	ReportedAt time.Time
}

// LiveLocationCache keeps the freshest reported position of each driver in a
// fast store so polling clients never touch the database for live tracking.
//
// The cache is a projection of repository state: position reports are written
// through after the transaction commits, and entries expire on their own when
// a driver's device goes silent.
type LiveLocationCache interface {
	// SetPosition stores the driver's latest position.
	SetPosition(ctx context.Context, position DriverPosition) error

	// GetPosition retrieves the cached position of a driver.
	// Returns nil without error when no fresh position is cached.
	GetPosition(ctx context.Context, driverID kernel.ID) (*DriverPosition, error)

	// GetPositions retrieves the cached positions for the given drivers.
	// Drivers without a fresh cached position are absent from the result.
	GetPositions(ctx context.Context, driverIDs []kernel.ID) (map[int64]DriverPosition, error)

	// RemovePosition drops the cached position of a driver.
	RemovePosition(ctx context.Context, driverID kernel.ID) error
}

package queries

import (
	"context"
	"database/sql"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// FleetSnapshotQueryHandler retrieves the tracking dashboard's read model:
// the orders of a dispatcher account with status and assigned driver, and
// every driver with availability, position, and current order. Uses direct
// SQL for optimal read performance in the CQRS pattern.
//
// Stored driver positions are overlaid with fresher ones from the live
// location cache, so a polling dashboard sees device positions at report
// cadence without waiting for the next database write.
type FleetSnapshotQueryHandler struct {
	db        *gorm.DB
	liveCache ports.LiveLocationCache
	logger    *slog.Logger
}

// NewFleetSnapshotQueryHandler creates a handler for fleet snapshot queries.
// Requires a GORM database connection, the live location cache, and a
// logger for overlay degradation warnings.
func NewFleetSnapshotQueryHandler(
	db *gorm.DB,
	liveCache ports.LiveLocationCache,
	logger *slog.Logger,
) FleetSnapshotQueryHandler {
	return FleetSnapshotQueryHandler{
		db:        db,
		liveCache: liveCache,
		logger:    logger,
	}
}

// Handle executes the fleet snapshot query.
// Returns the orders and drivers of the account sorted by ID; an account
// with neither yields an empty snapshot.
func (h FleetSnapshotQueryHandler) Handle(
	ctx context.Context,
	query FleetSnapshotQuery,
) (FleetSnapshotQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return FleetSnapshotQueryResponse{}, err
	}

	drivers, err := h.loadDrivers(ctx, query.OwnerEmail())
	if err != nil {
		return FleetSnapshotQueryResponse{}, err
	}
	h.overlayLivePositions(ctx, drivers)

	orders, err := h.loadOrders(ctx, query.OwnerEmail())
	if err != nil {
		return FleetSnapshotQueryResponse{}, err
	}

	return FleetSnapshotQueryResponse{
		Orders:  orders,
		Drivers: drivers,
	}, nil
}

func (h FleetSnapshotQueryHandler) loadDrivers(
	ctx context.Context,
	ownerEmail string,
) ([]FleetDriverSnapshot, error) {
	drivers := make([]FleetDriverSnapshot, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			is_available,
			location_lat,
			location_lng,
			location_reported_at,
			current_order_id
		FROM drivers
		WHERE owner_email = ?
		ORDER BY id
	`, ownerEmail).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rawID int64
		var entry FleetDriverSnapshot
		var lat, lng sql.NullFloat64
		var reportedAt sql.NullTime
		var currentOrderID sql.NullInt64

		err = rows.Scan(
			&rawID,
			&entry.Name,
			&entry.Phone,
			&entry.IsAvailable,
			&lat,
			&lng,
			&reportedAt,
			&currentOrderID,
		)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.NewID(rawID)
		if idErr != nil {
			return nil, idErr
		}
		entry.DriverID = driverID

		if lat.Valid && lng.Valid {
			position, pointErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
			if pointErr != nil {
				return nil, pointErr
			}
			entry.Position = &position
		}

		if reportedAt.Valid {
			value := reportedAt.Time
			entry.ReportedAt = &value
		}

		if currentOrderID.Valid {
			orderID, idErr := kernel.NewID(currentOrderID.Int64)
			if idErr != nil {
				return nil, idErr
			}
			entry.CurrentOrderID = &orderID
		}

		drivers = append(drivers, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

// overlayLivePositions replaces a driver's stored position with the cached
// one when the cache holds a fresher report. A cache outage degrades to the
// stored positions instead of failing the snapshot.
func (h FleetSnapshotQueryHandler) overlayLivePositions(
	ctx context.Context,
	drivers []FleetDriverSnapshot,
) {
	if len(drivers) == 0 {
		return
	}

	ids := make([]kernel.ID, 0, len(drivers))
	for _, entry := range drivers {
		ids = append(ids, entry.DriverID)
	}

	positions, err := h.liveCache.GetPositions(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "Live position overlay unavailable, serving stored positions",
			"error", err)
		return
	}

	for i := range drivers {
		cached, ok := positions[drivers[i].DriverID.Value()]
		if !ok {
			continue
		}
		if drivers[i].ReportedAt != nil && !cached.ReportedAt.After(*drivers[i].ReportedAt) {
			continue
		}

		point := cached.Point
		reportedAt := cached.ReportedAt
		drivers[i].Position = &point
		drivers[i].ReportedAt = &reportedAt
	}
}

func (h FleetSnapshotQueryHandler) loadOrders(
	ctx context.Context,
	ownerEmail string,
) ([]FleetOrderSnapshot, error) {
	orders := make([]FleetOrderSnapshot, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_name,
			o.address,
			o.status,
			o.driver_id,
			d.name
		FROM orders o
		LEFT JOIN drivers d ON d.id = o.driver_id
		WHERE o.owner_email = ?
		ORDER BY o.id
	`, ownerEmail).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rawID int64
		var entry FleetOrderSnapshot
		var rawStatus string
		var driverID sql.NullInt64
		var driverName sql.NullString

		err = rows.Scan(
			&rawID,
			&entry.CustomerName,
			&entry.Address,
			&rawStatus,
			&driverID,
			&driverName,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.NewID(rawID)
		if idErr != nil {
			return nil, idErr
		}
		entry.OrderID = orderID

		status, statusErr := order.StatusFromString(rawStatus)
		if statusErr != nil {
			return nil, statusErr
		}
		entry.Status = status

		if driverID.Valid {
			id, idErr := kernel.NewID(driverID.Int64)
			if idErr != nil {
				return nil, idErr
			}
			entry.DriverID = &id
		}

		if driverName.Valid {
			name := driverName.String
			entry.DriverName = &name
		}

		orders = append(orders, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

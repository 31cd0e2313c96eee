package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.ID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database and assigns the generated
// identifier back to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return err
	}
	if err := aggregate.SetID(id); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"owner_email":    dto.OwnerEmail,
			"customer_name":  dto.CustomerName,
			"customer_phone": dto.CustomerPhone,
			"address":        dto.Address,
			"items":          dto.Items,
			"price":          dto.Price,
			"pickup_lat":     dto.PickupLat,
			"pickup_lng":     dto.PickupLng,
			"drop_lat":       dto.DropLat,
			"drop_lng":       dto.DropLng,
			"status":         dto.Status,
			"driver_id":      dto.DriverID,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves an order by ID with a row lock held until the
// surrounding transaction ends. Assignment and completion read the order
// through this lock, so two dispatchers racing for the same order
// serialize: the loser observes the winner's committed state and fails its
// status precondition instead of overwriting the row.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Value()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAssignedToDriver retrieves the order currently assigned to the given
// driver. A driver carries at most one assigned order at a time.
func (r *GormOrderRepository) GetAssignedToDriver(ctx context.Context, driverID kernel.ID) (*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID.Value(), order.Assigned.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driverId", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

package driverrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.ID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new driver to the database and assigns the generated
// identifier back to the aggregate.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
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

// Update saves an existing driver to the database.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// A column map rather than the DTO struct: nil position and order
	// columns must be written back as NULL, and struct updates skip them.
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"owner_email":          dto.OwnerEmail,
			"name":                 dto.Name,
			"phone":                dto.Phone,
			"email":                dto.Email,
			"is_available":         dto.IsAvailable,
			"location_lat":         dto.LocationLat,
			"location_lng":         dto.LocationLng,
			"location_reported_at": dto.LocationReportedAt,
			"current_order_id":     dto.CurrentOrderID,
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

// Reserve persists a booking with a compare-and-set on availability.
// The conditional update only touches the row while it is still marked
// available, so two transactions racing for the same driver cannot both
// win: the loser sees zero affected rows and gets a conflicting state error.
func (r *GormDriverRepository) Reserve(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}

	orderID := aggregate.CurrentOrder()
	if aggregate.IsAvailable() || orderID == nil {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is not booked and cannot be reserved", aggregate.ID()),
		)
	}

	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND is_available = ?", aggregate.ID().Value(), true).
		Updates(map[string]any{
			"is_available":     false,
			"current_order_id": orderID.Value(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is no longer available", aggregate.ID()),
		)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a driver by ID.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.ID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves the available drivers of the given dispatcher
// account, ordered by identifier for deterministic results.
func (r *GormDriverRepository) GetAllAvailable(ctx context.Context, ownerEmail string) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("owner_email = ? AND is_available = ?", ownerEmail, true).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

// GetAllWithStaleLocation retrieves drivers whose stored position was
// reported before the cutoff. Drivers without a position are excluded.
func (r *GormDriverRepository) GetAllWithStaleLocation(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("location_reported_at IS NOT NULL AND location_reported_at < ?", cutoff).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence. It implements the repository pattern for the driver
// aggregate, converting between domain entities and database rows.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// The position columns are nullable: a driver with no reported position yet
// stores NULL there, not a zero coordinate.
type DriverDTO struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	OwnerEmail         string `gorm:"index"`
	Name               string
	Phone              string
	Email              string
	IsAvailable        bool `gorm:"index"`
	LocationLat        *float64
	LocationLng        *float64
	LocationReportedAt *time.Time
	CurrentOrderID     *int64 `gorm:"index"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
// For unpersisted aggregates the ID field is left zero so the store can
// generate one on insert.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	dto := DriverDTO{
		OwnerEmail:  aggregate.OwnerEmail(),
		Name:        aggregate.Name(),
		Phone:       aggregate.Phone(),
		Email:       aggregate.Email(),
		IsAvailable: aggregate.IsAvailable(),
	}

	if aggregate.ID().Validate() == nil {
		dto.ID = aggregate.ID().Value()
	}

	if location := aggregate.Location(); location != nil {
		lat := location.Latitude()
		lng := location.Longitude()
		reportedAt := aggregate.LocationReportedAt()

		dto.LocationLat = &lat
		dto.LocationLng = &lng
		dto.LocationReportedAt = &reportedAt
	}

	if orderID := aggregate.CurrentOrder(); orderID != nil {
		value := orderID.Value()
		dto.CurrentOrderID = &value
	}

	return dto
}

// toDomain converts a database DTO to a driver domain aggregate.
// Reconstructs the complete aggregate including availability, position,
// and current order using RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	var reportedAt time.Time
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
		if dto.LocationReportedAt != nil {
			reportedAt = *dto.LocationReportedAt
		}
	}

	var currentOrderID *kernel.ID
	if dto.CurrentOrderID != nil {
		orderID, orderErr := kernel.NewID(*dto.CurrentOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &orderID
	}

	return driver.RestoreDriver(
		id,
		dto.OwnerEmail,
		dto.Name,
		dto.Phone,
		dto.Email,
		dto.IsAvailable,
		location,
		reportedAt,
		currentOrderID,
	)
}

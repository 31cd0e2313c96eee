// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The drop columns are nullable: an order whose address could not be geocoded
// stores NULL there and dispatch falls back to the pickup point.
type OrderDTO struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	OwnerEmail    string `gorm:"index"`
	CustomerName  string
	CustomerPhone string
	Address       string
	Items         string
	Price         float64
	PickupLat     float64
	PickupLng     float64
	DropLat       *float64
	DropLng       *float64
	Status        string `gorm:"index"`
	DriverID      *int64 `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// For unpersisted aggregates the ID field is left zero so the store can
// generate one on insert.
func fromDomain(aggregate *order.Order) OrderDTO {
	pickup := aggregate.Pickup()

	dto := OrderDTO{
		OwnerEmail:    aggregate.OwnerEmail(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       aggregate.Address(),
		Items:         aggregate.Items(),
		Price:         aggregate.Price(),
		PickupLat:     pickup.Latitude(),
		PickupLng:     pickup.Longitude(),
		Status:        aggregate.Status().String(),
	}

	if aggregate.ID().Validate() == nil {
		dto.ID = aggregate.ID().Value()
	}

	if drop := aggregate.Drop(); drop != nil {
		lat := drop.Latitude()
		lng := drop.Longitude()
		dto.DropLat = &lat
		dto.DropLng = &lng
	}

	if driverID := aggregate.Driver(); driverID != nil {
		value := driverID.Value()
		dto.DriverID = &value
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and driver
// assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}

	var drop *kernel.GeoPoint
	if dto.DropLat != nil && dto.DropLng != nil {
		point, dropErr := kernel.NewGeoPoint(*dto.DropLat, *dto.DropLng)
		if dropErr != nil {
			return nil, dropErr
		}
		drop = &point
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.ID
	if dto.DriverID != nil {
		dID, driverErr := kernel.NewID(*dto.DriverID)
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	return order.RestoreOrder(
		id,
		dto.OwnerEmail,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.Address,
		dto.Items,
		dto.Price,
		pickup,
		drop,
		status,
		driverID,
	)
}

package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Geocoder resolves a free-form postal address into geographic coordinates.
//
// Implementations return an object-not-found error when the address matches
// nothing and an upstream-unavailable error when the geocoding service cannot
// be reached. Callers decide how to degrade; order creation stores the order
// without a drop location rather than failing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

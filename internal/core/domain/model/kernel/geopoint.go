package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Valid coordinate bounds in decimal degrees (WGS 84).
const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// metersPerKilometer converts the meter distances of orb/geo to kilometers.
const metersPerKilometer = 1000.0

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic coordinate with validated latitude and
// longitude. GeoPoint is an immutable value object; the zero value is invalid
// and fails validation, so "no known position" is expressed as an absent
// (nil) *GeoPoint rather than a magic coordinate such as (0,0). A genuinely
// resolved point at the equator/prime meridian therefore remains
// distinguishable from an unresolved one.
//
// Example:
//
//	depot, err := kernel.NewGeoPoint(19.2307, 72.8567)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(depot) // Output: GeoPoint(19.230700,72.856700)
type GeoPoint struct { //nolint:recvcheck //using for validation
	point orb.Point
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in decimal
// degrees. Both values must be within the WGS 84 bounds; out-of-range values
// return a validation error so malformed client input never reaches distance
// computation.
func NewGeoPoint(latitude float64, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks if the GeoPoint was properly constructed via NewGeoPoint.
// The zero value of GeoPoint is invalid and will fail this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.point.Lat()
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.point.Lon()
}

// String returns a human-readable representation in the form
// "GeoPoint(lat,lng)". Implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.point.Lat(), p.point.Lon())
}

// IsEqual compares two points for exact coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.point == other.point, nil
}

// DistanceKmTo calculates the great-circle (haversine) distance to another
// point in kilometers. The result is non-negative, symmetric, and exactly
// zero for identical coordinates. Both points must be properly constructed.
//
// Example:
//
//	depot, _ := kernel.NewGeoPoint(19.2307, 72.8567)
//	drop, _ := kernel.NewGeoPoint(19.0760, 72.8777)
//	km, _ := depot.DistanceKmTo(drop) // ≈ 17.3
func (p GeoPoint) DistanceKmTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	if p.point == other.point {
		return 0, nil
	}

	return geo.DistanceHaversine(p.point, other.point) / metersPerKilometer, nil
}

// setLatitude sets the latitude with bounds validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so construction can use self-encapsulated validation.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.point[1] = latitude
	return nil
}

// setLongitude sets the longitude with bounds validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.point[0] = longitude
	return nil
}

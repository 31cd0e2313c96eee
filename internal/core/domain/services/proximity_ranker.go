package services

import (
	"sort"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// RankedDriver pairs a driver with its distance to the ranking reference
// point. Located reports whether the driver had a known position; drivers
// without one carry a zero distance and always rank after located ones.
type RankedDriver struct {
	Driver     *driver.Driver
	DistanceKm float64
	Located    bool
}

// ProximityRanker is a domain service that orders a fleet of drivers by
// great-circle distance to a reference point.
//
// Ranking rules:
//   - Located drivers come first, nearest to farthest
//   - Ties on distance break by ascending driver ID for a stable order
//   - Drivers without a known position rank last, by ascending driver ID
//   - An empty fleet yields an empty ranking, not an error
type ProximityRanker struct{}

// NewProximityRanker creates a new ProximityRanker instance.
func NewProximityRanker() ProximityRanker {
	return ProximityRanker{}
}

// Rank orders the given drivers by distance to the reference point.
//
// Parameters:
//   - drivers: The fleet to rank; may be empty
//   - reference: The point to measure distances to (must be valid)
//
// Returns:
//   - []RankedDriver: The fleet in ranking order with measured distances
//   - error: Validation error if the reference point or any driver is invalid
func (r ProximityRanker) Rank(drivers []*driver.Driver, reference kernel.GeoPoint) ([]RankedDriver, error) {
	if err := reference.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]RankedDriver, 0, len(drivers))
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}

		entry := RankedDriver{Driver: d}
		if d.Location() != nil {
			km, err := d.DistanceKmTo(reference)
			if err != nil {
				return nil, err
			}
			entry.DistanceKm = km
			entry.Located = true
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Located != b.Located {
			return a.Located
		}
		if a.Located && a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.Driver.ID().Value() < b.Driver.ID().Value()
	})

	return ranked, nil
}

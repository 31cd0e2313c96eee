// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - ProximityRanker: Orders a fleet of drivers by distance to a reference
//     point, ranking drivers without a known position last
//   - Dispatcher: Coordinates assignment, reassignment, and completion
//     workflows across the Order and Driver aggregates
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services

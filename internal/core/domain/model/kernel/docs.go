// Package kernel provides core domain primitives for the dispatch system.
// It implements fundamental building blocks following Domain-Driven Design
// principles that are used throughout the domain model.
//
// The package includes:
//   - ID: A value object for store-assigned numeric identifiers with validation
//     and comparison capabilities
//   - GeoPoint: A value object representing a geographic coordinate with
//     great-circle distance computation
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel

// Package order provides domain entities and business logic for order
// management in the dispatch system. It implements the Order aggregate root
// with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, customer
//     details, pickup/drop locations, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders belong to the dispatcher account that created them
//   - Customer phone numbers are exactly ten digits and price is positive
//   - Order status follows a defined workflow: Pending -> Assigned -> Delivered
//   - Orders can be reassigned while in the Assigned status
//   - Orders can only be completed when in the Assigned status
//   - The drop location may be absent when geocoding the delivery address
//     failed; proximity ranking then falls back to the pickup point
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order

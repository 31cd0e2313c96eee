// Package driver provides the Driver aggregate for fleet management in the
// dispatch system.
//
// A Driver tracks identity, availability, the last reported position with its
// report time, and the order currently being carried. Position reports apply
// last-writer-wins by device timestamp so delayed reports never roll the
// position back, and the booking methods guarantee a driver carries at most
// one order at a time.
package driver

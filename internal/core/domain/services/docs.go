// Package services provides domain services that derive state across the
// parts of a fulfillment order aggregate.
//
// The package includes:
//   - StatusRollup: advances an order's status from the pick and pack progress
//     of its items
package services

// Package fulfillment models the warehouse side of a completed sales order.
//
// Order is the aggregate root. It owns its Items (one per source order line)
// and the Packages created when it ships, and it records every status change
// it goes through as a StatusChange that the application layer appends to the
// status ledger in the same transaction.
//
// Key business rules:
//   - For every item 0 <= shipped <= packed <= picked <= ordered holds at all times
//   - Pick and pack set absolute quantities that may only grow within a stage
//   - Items cannot be picked or packed once the order is shipped, delivered or cancelled
//   - Manual status changes go through a TransitionPolicy (strict table or permissive)
//   - Shipping happens exactly once and forces the shipped status
//
// Status order for progress comparisons:
//
//	pending < picking < picked < packed < shipped < delivered
//
// cancelled sits outside that sequence and, like delivered, is terminal.
package fulfillment

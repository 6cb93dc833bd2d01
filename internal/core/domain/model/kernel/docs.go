// Package kernel holds the value objects shared by every fulfillment
// aggregate: UUID identifiers and the warehouse BinLocation an item was
// picked from. Both are immutable and reject their zero value on Validate.
package kernel

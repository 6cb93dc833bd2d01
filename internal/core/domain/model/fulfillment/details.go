package fulfillment

// OrderDetails is a hydrated order together with its status ledger, oldest
// entry first.
type OrderDetails struct {
	Order   *Order
	History []*StatusChange
}

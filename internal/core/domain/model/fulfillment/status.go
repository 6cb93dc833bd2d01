package fulfillment

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a fulfillment order.
//
//	pending ──> picking ──> picked ──> packed ──> shipped ──> delivered
//	   │           │           │          │          │
//	   └───────────┴───────────┴──────────┴──────────┴──> cancelled
//
// Forward jumps (for example pending -> packed) are allowed; which jumps a
// manual update may take is decided by a TransitionPolicy.
type Status int

const (
	// StatusUnknown is the zero value and never valid.
	StatusUnknown Status = iota
	StatusPending
	StatusPicking
	StatusPicked
	StatusPacked
	StatusShipped
	StatusDelivered
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusPicking:   "picking",
	StatusPicked:    "picked",
	StatusPacked:    "packed",
	StatusShipped:   "shipped",
	StatusDelivered: "delivered",
	StatusCancelled: "cancelled",
}

// progressRank places statuses on the forward sequence. cancelled has no rank.
var progressRank = map[Status]int{
	StatusPending:   1,
	StatusPicking:   2,
	StatusPicked:    3,
	StatusPacked:    4,
	StatusShipped:   5,
	StatusDelivered: 6,
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPicking,
		StatusPicked,
		StatusPacked,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus converts the lowercase wire name into a Status.
//
// Example:
//
//	s, err := fulfillment.ParseStatus("shipped")
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name, or "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsClosedForWork reports whether items can no longer be picked or packed.
func (s Status) IsClosedForWork() bool {
	return s == StatusShipped || s.IsTerminal()
}

// Precedes reports whether s comes strictly before other on the progress
// sequence. It is false whenever either side is cancelled or invalid.
func (s Status) Precedes(other Status) bool {
	a, okA := progressRank[s]
	b, okB := progressRank[other]
	return okA && okB && a < b
}

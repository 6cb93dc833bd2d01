package fulfillment

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// TransitionPolicy decides whether a status change from one status to
// another may be applied.
type TransitionPolicy interface {
	Allow(from, to Status) error
}

var strictTransitions = map[Status][]Status{
	StatusPending: {StatusPicking, StatusPicked, StatusPacked, StatusShipped, StatusCancelled},
	StatusPicking: {StatusPicked, StatusPacked, StatusShipped, StatusCancelled},
	StatusPicked:  {StatusPacked, StatusShipped, StatusCancelled},
	StatusPacked:  {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

// StrictTransitionPolicy only allows the forward moves of the lifecycle plus
// cancellation from any non-terminal status.
type StrictTransitionPolicy struct{}

func (StrictTransitionPolicy) Allow(from, to Status) error {
	if err := validateTarget(to); err != nil {
		return err
	}
	if from.IsTerminal() {
		return errs.NewInvalidStateErrorWithCause("fulfillment order", from,
			fmt.Errorf("%s is a terminal status", from))
	}
	for _, allowed := range strictTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return errs.NewInvalidStateErrorWithCause("fulfillment order", from,
		fmt.Errorf("transition %s -> %s is not allowed", from, to))
}

// PermissiveTransitionPolicy accepts any valid non-initial target regardless
// of the current status.
type PermissiveTransitionPolicy struct{}

func (PermissiveTransitionPolicy) Allow(_, to Status) error {
	return validateTarget(to)
}

func validateTarget(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if to == StatusPending {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is the initial status and cannot be assigned", to))
	}
	return nil
}

// ShipReadiness controls whether shipping requires the order to be packed.
type ShipReadiness int

const (
	// ShipPermissive allows shipping from any open status.
	ShipPermissive ShipReadiness = iota
	// ShipRequiresPacked only allows shipping a packed order.
	ShipRequiresPacked
)

// ParseShipReadiness accepts "permissive" and "require_packed".
func ParseShipReadiness(s string) (ShipReadiness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return ShipPermissive, nil
	case "require_packed":
		return ShipRequiresPacked, nil
	default:
		return ShipPermissive, errs.NewValueIsInvalidErrorWithCause("ship policy",
			fmt.Errorf("%q is not one of permissive, require_packed", s))
	}
}

func (r ShipReadiness) String() string {
	if r == ShipRequiresPacked {
		return "require_packed"
	}
	return "permissive"
}

// Policy bundles the configurable workflow rules.
type Policy struct {
	Transitions TransitionPolicy
	Shipping    ShipReadiness
}

// DefaultPolicy is the strict transition table with permissive shipping.
func DefaultPolicy() Policy {
	return Policy{
		Transitions: StrictTransitionPolicy{},
		Shipping:    ShipPermissive,
	}
}

// NewPolicy builds a Policy from configuration values.
func NewPolicy(strictTransitions bool, shipping ShipReadiness) Policy {
	p := Policy{Shipping: shipping, Transitions: PermissiveTransitionPolicy{}}
	if strictTransitions {
		p.Transitions = StrictTransitionPolicy{}
	}
	return p
}

func (p Policy) transitions() TransitionPolicy {
	if p.Transitions == nil {
		return StrictTransitionPolicy{}
	}
	return p.Transitions
}

package fulfillment

import (
	"errors"
	"maps"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrStatusChangeIsNotConstructed = errors.New("StatusChange must be created via NewStatusChange or RestoreStatusChange")

// StatusChange is one immutable entry of the status ledger. previousStatus
// is nil for the entry written at creation and changedBy is nil for
// system-driven changes such as rollups.
type StatusChange struct {
	id             kernel.UUID
	orderID        kernel.UUID
	status         Status
	previousStatus *Status
	changedBy      *string
	notes          *string
	metadata       map[string]any
	changedAt      time.Time

	guard guard.ConstructorGuard
}

// StatusChangeParams holds every field of a ledger entry.
type StatusChangeParams struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	Status         Status
	PreviousStatus *Status
	ChangedBy      *string
	Notes          *string
	Metadata       map[string]any
	ChangedAt      time.Time
}

// NewStatusChange creates a ledger entry with a fresh id.
func NewStatusChange(p StatusChangeParams) (*StatusChange, error) {
	p.ID = kernel.NewUUID()
	return RestoreStatusChange(p)
}

// RestoreStatusChange rebuilds a ledger entry read from storage.
func RestoreStatusChange(p StatusChangeParams) (*StatusChange, error) {
	var prevErr error
	if p.PreviousStatus != nil {
		prevErr = p.PreviousStatus.Validate()
	}
	if err := errors.Join(
		validateID("status change id", p.ID),
		validateID("status change order id", p.OrderID),
		p.Status.Validate(),
		prevErr,
	); err != nil {
		return nil, err
	}

	return &StatusChange{
		id:             p.ID,
		orderID:        p.OrderID,
		status:         p.Status,
		previousStatus: p.PreviousStatus,
		changedBy:      p.ChangedBy,
		notes:          p.Notes,
		metadata:       maps.Clone(p.Metadata),
		changedAt:      p.ChangedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c *StatusChange) Validate() error {
	if c == nil {
		return ErrStatusChangeIsNotConstructed
	}
	return c.guard.Validate(ErrStatusChangeIsNotConstructed)
}

func (c *StatusChange) ID() kernel.UUID         { return c.id }
func (c *StatusChange) OrderID() kernel.UUID    { return c.orderID }
func (c *StatusChange) Status() Status          { return c.status }
func (c *StatusChange) PreviousStatus() *Status { return c.previousStatus }
func (c *StatusChange) ChangedBy() *string      { return c.changedBy }
func (c *StatusChange) Notes() *string          { return c.notes }
func (c *StatusChange) ChangedAt() time.Time    { return c.changedAt }

// Metadata returns a copy of the attached metadata, nil when none was given.
func (c *StatusChange) Metadata() map[string]any {
	return maps.Clone(c.metadata)
}

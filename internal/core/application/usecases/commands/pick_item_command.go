package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPickItemCommandIsNotConstructed = errors.New(
	"PickItemCommand must be created via NewPickItemCommand constructor",
)

// PickItemCommand records how many units of an item have been taken from
// the shelf. The quantity is absolute, not a delta.
//
// Example:
//
//	cmd, err := NewPickItemCommand(itemID, 3, "ana", "A-12-03", "B7", nil)
type PickItemCommand struct { //nolint:recvcheck //using for validation
	itemID   kernel.UUID
	quantity int
	pickedBy string
	location *kernel.BinLocation
	notes    *string

	guard guard.ConstructorGuard
}

// NewPickItemCommand validates its arguments. The bin number is only
// accepted together with a location code.
func NewPickItemCommand(
	itemID kernel.UUID,
	quantity int,
	pickedBy string,
	locationCode string,
	binNumber string,
	notes *string,
) (PickItemCommand, error) {
	cmd := PickItemCommand{
		notes: trimmedOrNil(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setQuantity(quantity),
		cmd.setPickedBy(pickedBy),
		cmd.setLocation(locationCode, binNumber),
	); err != nil {
		return PickItemCommand{}, err
	}

	return cmd, nil
}

func (c PickItemCommand) Validate() error {
	return c.guard.Validate(ErrPickItemCommandIsNotConstructed)
}

func (c PickItemCommand) ItemID() kernel.UUID           { return c.itemID }
func (c PickItemCommand) Quantity() int                 { return c.quantity }
func (c PickItemCommand) PickedBy() string              { return c.pickedBy }
func (c PickItemCommand) Location() *kernel.BinLocation { return c.location }
func (c PickItemCommand) Notes() *string                { return c.notes }

func (c *PickItemCommand) setItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.itemID = id
	return nil
}

func (c *PickItemCommand) setQuantity(q int) error {
	if q < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", q))
	}
	c.quantity = q
	return nil
}

func (c *PickItemCommand) setPickedBy(pickedBy string) error {
	pickedBy = strings.TrimSpace(pickedBy)
	if pickedBy == "" {
		return errs.NewValueIsRequiredError("pickedBy")
	}
	c.pickedBy = pickedBy
	return nil
}

func (c *PickItemCommand) setLocation(locationCode, binNumber string) error {
	if strings.TrimSpace(locationCode) == "" {
		if strings.TrimSpace(binNumber) != "" {
			return errs.NewValueIsRequiredErrorWithCause("locationCode",
				errors.New("bin number given without a location code"))
		}
		return nil
	}
	loc, err := kernel.NewBinLocation(locationCode, binNumber)
	if err != nil {
		return err
	}
	c.location = &loc
	return nil
}

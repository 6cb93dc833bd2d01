package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPackItemCommandIsNotConstructed = errors.New(
	"PackItemCommand must be created via NewPackItemCommand constructor",
)

// PackItemCommand records how many picked units of an item are in a box.
type PackItemCommand struct { //nolint:recvcheck //using for validation
	itemID   kernel.UUID
	quantity int
	packedBy string
	notes    *string

	guard guard.ConstructorGuard
}

func NewPackItemCommand(itemID kernel.UUID, quantity int, packedBy string, notes *string) (PackItemCommand, error) {
	cmd := PackItemCommand{
		notes: trimmedOrNil(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setQuantity(quantity),
		cmd.setPackedBy(packedBy),
	); err != nil {
		return PackItemCommand{}, err
	}

	return cmd, nil
}

func (c PackItemCommand) Validate() error {
	return c.guard.Validate(ErrPackItemCommandIsNotConstructed)
}

func (c PackItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c PackItemCommand) Quantity() int       { return c.quantity }
func (c PackItemCommand) PackedBy() string    { return c.packedBy }
func (c PackItemCommand) Notes() *string      { return c.notes }

func (c *PackItemCommand) setItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.itemID = id
	return nil
}

func (c *PackItemCommand) setQuantity(q int) error {
	if q < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", q))
	}
	c.quantity = q
	return nil
}

func (c *PackItemCommand) setPackedBy(packedBy string) error {
	packedBy = strings.TrimSpace(packedBy)
	if packedBy == "" {
		return errs.NewValueIsRequiredError("packedBy")
	}
	c.packedBy = packedBy
	return nil
}

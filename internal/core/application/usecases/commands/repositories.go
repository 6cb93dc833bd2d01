// Package commands contains the operations that change fulfillment state.
// Every command is a validated value object handled inside one unit of work:
// the owning order row is locked, the aggregate is mutated, items and ledger
// entries are written and the transaction commits as a whole.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// FulfillmentRepoFactory provides the order repository bound to the transaction.
	FulfillmentRepoFactory interface {
		FulfillmentOrderRepository() ports.FulfillmentOrderRepository
	}

	// LedgerFactory provides the status ledger bound to the transaction.
	LedgerFactory interface {
		StatusLedger() ports.StatusLedger
	}

	// SequenceFactory provides the sequence generator bound to the transaction.
	SequenceFactory interface {
		SequenceGenerator() ports.SequenceGenerator
	}

	// FulfillmentUoW covers commands that mutate an existing order.
	FulfillmentUoW interface {
		TxManager
		FulfillmentRepoFactory
		LedgerFactory
	}

	// FulfillmentUoWFactory creates FulfillmentUoW instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// NumberingUoW covers commands that also allocate numbers.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   number, err := uow.SequenceGenerator().NextFulfillmentNumber(ctx)
	//   err = uow.FulfillmentOrderRepository().Add(ctx, order)
	//   err = uow.StatusLedger().Append(ctx, order.PullStatusChanges()...)
	//
	//   err = uow.Commit(ctx)
	NumberingUoW interface {
		FulfillmentUoW
		SequenceFactory
	}

	// NumberingUoWFactory creates NumberingUoW instances.
	NumberingUoWFactory interface {
		Create() NumberingUoW
	}
)

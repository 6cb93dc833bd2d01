package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin share its transaction; before Begin they read outside any
// transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// BeginReadOnly starts a read-only transaction in which every read sees
	// the same snapshot. End it with Rollback.
	BeginReadOnly(ctx context.Context) error

	// Commit commits the transaction and then hands tracked ledger entries to
	// the registered notifiers.
	Commit(ctx context.Context) error

	// Rollback discards the transaction.
	Rollback(ctx context.Context) error

	FulfillmentOrderRepository() FulfillmentOrderRepository
	StatusLedger() StatusLedger
	SequenceGenerator() SequenceGenerator
}

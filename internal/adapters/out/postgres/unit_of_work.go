// Package postgres provides the GORM implementation of the Unit of Work.
//
// One UnitOfWork wraps one database transaction. Repositories obtained from
// it after Begin share that transaction; before Begin they use the plain
// connection. The read side uses BeginReadOnly to load an aggregate and its
// ledger from one snapshot.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, logger, publisher, recorder)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.FulfillmentOrderRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// mutate o, then
//	if err := uow.FulfillmentOrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.StatusLedger().Append(ctx, o.PullStatusChanges()...); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Every ledger entry appended through the unit of work is handed to the
// registered notifiers once Commit succeeds. A failing notifier is logged
// and never undoes the commit.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"fulfillment/internal/adapters/out/postgres/fulfillmentrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/sequencegen"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one set of notifiers.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	logger    *slog.Logger
	notifiers []ports.StatusChangeNotifier
}

func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	logger *slog.Logger,
	notifiers ...ports.StatusChangeNotifier,
) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		logger:    logger.With("component", "unit_of_work"),
		notifiers: notifiers,
	}
}

// Create returns a fresh unit of work. Instances are not safe for
// concurrent use; every operation creates its own.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		logger:            f.logger,
		notifiers:         f.notifiers,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and tracks the aggregates its
// repositories write.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	logger            *slog.Logger
	notifiers         []ports.StatusChangeNotifier
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	return uow.begin(ctx)
}

// BeginReadOnly starts a REPEATABLE READ, READ ONLY transaction so that an
// order, its items and its ledger are read from one snapshot.
func (uow *GormUnitOfWork) BeginReadOnly(ctx context.Context) error {
	return uow.begin(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

func (uow *GormUnitOfWork) begin(ctx context.Context, opts ...*sql.TxOptions) error {
	if uow.tx != nil {
		return nil
	}

	uow.resetTracking()
	uow.tx = uow.db.WithContext(ctx).Begin(opts...)
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then notifies about the ledger entries
// written inside it.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.resetTracking()
		return err
	}

	uow.notify(ctx, uow.statusChanges())
	uow.resetTracking()
	return nil
}

// Rollback discards the transaction and everything tracked inside it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.resetTracking()
	return err
}

func (uow *GormUnitOfWork) FulfillmentOrderRepository() ports.FulfillmentOrderRepository {
	return fulfillmentrepo.NewGormFulfillmentOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StatusLedger() ports.StatusLedger {
	return ledgerrepo.NewGormStatusLedger(uow.conn(), uow)
}

func (uow *GormUnitOfWork) SequenceGenerator() ports.SequenceGenerator {
	return sequencegen.NewGormSequenceGenerator(uow.conn())
}

// TrackAggregate is called by the repositories for every aggregate they
// write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns what has been written since Begin.
func (uow *GormUnitOfWork) TrackedAggregates() []any {
	out := make([]any, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		out = append(out, t.Aggregate)
	}
	return out
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) resetTracking() {
	uow.trackedAggregates = uow.trackedAggregates[:0]
}

func (uow *GormUnitOfWork) statusChanges() []*fulfillment.StatusChange {
	changes := make([]*fulfillment.StatusChange, 0)
	for _, t := range uow.trackedAggregates {
		if c, ok := t.Aggregate.(*fulfillment.StatusChange); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

func (uow *GormUnitOfWork) notify(ctx context.Context, changes []*fulfillment.StatusChange) {
	if len(changes) == 0 {
		return
	}
	for _, n := range uow.notifiers {
		if err := n.NotifyStatusChanged(ctx, changes); err != nil {
			uow.logger.ErrorContext(ctx, "status change notification failed",
				"error", err,
				"changes", len(changes),
			)
		}
	}
}

package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pickedOrder(t *testing.T, quantities ...int) *fulfillment.Order {
	t.Helper()
	o := newOrder(quantities...)
	now := time.Now().UTC()
	for _, item := range o.Items() {
		_, err := o.PickItem(item.ID(), fulfillment.PickInput{Quantity: item.QuantityOrdered(), PickedBy: "ana"}, now)
		require.NoError(t, err)
	}
	_, err := services.NewStatusRollup().Recompute(o, now)
	require.NoError(t, err)
	o.PullStatusChanges()
	return o
}

func TestNewPackItemCommand(t *testing.T) {
	_, err := commands.NewPackItemCommand(kernel.NewUUID(), -2, "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var cmd commands.PackItemCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrPackItemCommandIsNotConstructed)
}

func TestPackItemCommandHandler_Handle_RollsUpToPacked(t *testing.T) {
	ctx := t.Context()
	o := pickedOrder(t, 3)
	item := o.Items()[0]
	cmd, err := commands.NewPackItemCommand(item.ID(), 3, "bo", nil)
	require.NoError(t, err)

	env := newTestEnv()
	var appended []*fulfillment.StatusChange
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.repo.On("Update", ctx, o).Return(nil).Once(),
		env.ledger.On("Append", ctx, changesOfLen(1)).Run(func(args mock.Arguments) {
			appended = args.Get(1).([]*fulfillment.StatusChange)
		}).Return(nil).Once(),
		env.uow.On("Commit", ctx).Return(nil).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPackItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	packed, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, packed.QuantityPacked())
	assert.Equal(t, "bo", *packed.PackedBy())
	assert.Equal(t, fulfillment.StatusPacked, o.Status())
	require.Len(t, appended, 1)
	assert.Equal(t, fulfillment.StatusPicked, *appended[0].PreviousStatus())
	env.assertExpectations(t)
}

func TestPackItemCommandHandler_Handle_MorePackedThanPicked(t *testing.T) {
	ctx := t.Context()
	o := newOrder(3)
	item := o.Items()[0]
	cmd, err := commands.NewPackItemCommand(item.ID(), 1, "bo", nil)
	require.NoError(t, err)

	env := newTestEnv()
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPackItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	env.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	env.assertExpectations(t)
}

func TestPackItemCommandHandler_Handle_CancelledOrder(t *testing.T) {
	ctx := t.Context()
	o := pickedOrder(t, 3)
	require.NoError(t, o.ChangeStatus(fulfillment.StrictTransitionPolicy{},
		fulfillment.StatusUpdate{Status: fulfillment.StatusCancelled}, time.Now().UTC()))
	o.PullStatusChanges()
	item := o.Items()[0]
	cmd, err := commands.NewPackItemCommand(item.ID(), 3, "bo", nil)
	require.NoError(t, err)

	env := newTestEnv()
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPackItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	env.assertExpectations(t)
}

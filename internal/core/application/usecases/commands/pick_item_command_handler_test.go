package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPickItemCommand(t *testing.T) {
	id := kernel.NewUUID()

	tests := []struct {
		name     string
		quantity int
		pickedBy string
		code     string
		bin      string
		wantErr  error
	}{
		{name: "negative quantity", quantity: -1, pickedBy: "ana", wantErr: errs.ErrValueIsInvalid},
		{name: "missing picker", quantity: 1, pickedBy: "  ", wantErr: errs.ErrValueIsRequired},
		{name: "bin without location", quantity: 1, pickedBy: "ana", bin: "B7", wantErr: errs.ErrValueIsRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewPickItemCommand(id, tt.quantity, tt.pickedBy, tt.code, tt.bin, nil)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("with location", func(t *testing.T) {
		cmd, err := commands.NewPickItemCommand(id, 0, " ana ", " A-12-03 ", "B7", nil)
		require.NoError(t, err)
		assert.Equal(t, "ana", cmd.PickedBy())
		require.NotNil(t, cmd.Location())
		assert.Equal(t, "A-12-03/B7", cmd.Location().String())
	})

	t.Run("without location", func(t *testing.T) {
		cmd, err := commands.NewPickItemCommand(id, 2, "ana", "", "", nil)
		require.NoError(t, err)
		assert.Nil(t, cmd.Location())
	})
}

func TestPickItemCommandHandler_Handle_RollsUpToPicked(t *testing.T) {
	ctx := t.Context()
	o := newOrder(4)
	item := o.Items()[0]
	cmd, err := commands.NewPickItemCommand(item.ID(), 4, "ana", "A-12-03", "B7", nil)
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

	h := commands.NewPickItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	picked, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 4, picked.QuantityPicked())
	assert.Equal(t, "ana", *picked.PickedBy())
	assert.NotNil(t, picked.PickedAt())
	assert.Equal(t, "A-12-03/B7", picked.Location().String())
	assert.Equal(t, fulfillment.StatusPicked, o.Status())
	require.Len(t, appended, 1)
	assert.Equal(t, services.RollupNote, *appended[0].Notes())
	assert.Nil(t, appended[0].ChangedBy())
	env.assertExpectations(t)
}

func TestPickItemCommandHandler_Handle_PartialPickKeepsStatus(t *testing.T) {
	ctx := t.Context()
	o := newOrder(4, 2)
	item := o.Items()[0]
	cmd, err := commands.NewPickItemCommand(item.ID(), 4, "ana", "", "", nil)
	require.NoError(t, err)

	env := newTestEnv()
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.repo.On("Update", ctx, o).Return(nil).Once(),
		env.uow.On("Commit", ctx).Return(nil).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPickItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, fulfillment.StatusPending, o.Status())
	env.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	env.assertExpectations(t)
}

func TestPickItemCommandHandler_Handle_OverPick(t *testing.T) {
	ctx := t.Context()
	o := newOrder(4)
	item := o.Items()[0]
	cmd, err := commands.NewPickItemCommand(item.ID(), 10, "ana", "", "", nil)
	require.NoError(t, err)

	env := newTestEnv()
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPickItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Equal(t, 0, o.Items()[0].QuantityPicked())
	env.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	env.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	env.assertExpectations(t)
}

func TestPickItemCommandHandler_Handle_BeginFails(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPickItemCommand(kernel.NewUUID(), 1, "ana", "", "", nil)
	require.NoError(t, err)

	env := newTestEnv()
	env.uow.On("Begin", ctx).Return(errors.New("pool exhausted")).Once()

	h := commands.NewPickItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "pool exhausted")
	env.uow.AssertNotCalled(t, "Rollback", mock.Anything)
	env.assertExpectations(t)
}

func TestPickItemCommandHandler_Handle_CommitFails(t *testing.T) {
	ctx := t.Context()
	o := newOrder(4, 4)
	item := o.Items()[0]
	cmd, err := commands.NewPickItemCommand(item.ID(), 1, "ana", "", "", nil)
	require.NoError(t, err)

	env := newTestEnv()
	mock.InOrder(
		env.uow.On("Begin", ctx).Return(nil).Once(),
		env.repo.On("GetByItemForUpdate", ctx, item.ID()).Return(o, nil).Once(),
		env.repo.On("Update", ctx, o).Return(nil).Once(),
		env.uow.On("Commit", ctx).Return(errors.New("serialization failure")).Once(),
		env.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewPickItemCommandHandler(env.fulfillmentFactory(), services.NewStatusRollup())
	_, err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "serialization failure")
	env.assertExpectations(t)
}

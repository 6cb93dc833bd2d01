package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateFulfillmentOrderCommand(t *testing.T) {
	sourceID := kernel.NewUUID()

	t.Run("defaults priority to normal and trims optional text", func(t *testing.T) {
		assignee := "  team-vault "
		blank := "   "

		cmd, err := commands.NewCreateFulfillmentOrderCommand(sourceID, "", &assignee, &blank, fulfillment.Schedule{})

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, fulfillment.PriorityNormal, cmd.Priority())
		assert.Equal(t, "team-vault", *cmd.AssignedTo())
		assert.Nil(t, cmd.Instructions())
		assert.True(t, cmd.SourceOrderID().IsEqual(sourceID))
	})

	t.Run("parses priority", func(t *testing.T) {
		cmd, err := commands.NewCreateFulfillmentOrderCommand(sourceID, "urgent", nil, nil, fulfillment.Schedule{})
		require.NoError(t, err)
		assert.Equal(t, fulfillment.PriorityUrgent, cmd.Priority())
	})

	t.Run("joins errors", func(t *testing.T) {
		ship := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		delivery := ship.Add(-time.Hour)

		_, err := commands.NewCreateFulfillmentOrderCommand(kernel.UUID{}, "asap", nil, nil,
			fulfillment.Schedule{EstimatedShipDate: &ship, EstimatedDeliveryDate: &delivery})

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "priority")
		assert.Contains(t, err.Error(), "estimatedDeliveryDate")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.CreateFulfillmentOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateFulfillmentOrderCommandIsNotConstructed)
	})
}

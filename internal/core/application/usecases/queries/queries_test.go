package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetFulfillmentOrderQuery(t *testing.T) {
	_, err := queries.NewGetFulfillmentOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	q, err := queries.NewGetFulfillmentOrderQuery(kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, q.Validate())

	require.ErrorIs(t, queries.GetFulfillmentOrderQuery{}.Validate(), queries.ErrGetFulfillmentOrderQueryIsNotConstructed)
}

func TestNewListFulfillmentOrdersQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := queries.NewListFulfillmentOrdersQuery(queries.ListFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, queries.DefaultListLimit, q.Limit())
		assert.Nil(t, q.Status())
		assert.Nil(t, q.Priority())
		assert.Nil(t, q.AssignedTo())
	})

	t.Run("caps limit", func(t *testing.T) {
		q, err := queries.NewListFulfillmentOrdersQuery(queries.ListFilter{}, 500, 40)
		require.NoError(t, err)
		assert.Equal(t, queries.MaxListLimit, q.Limit())
		assert.Equal(t, 40, q.Offset())
	})

	t.Run("parses filters", func(t *testing.T) {
		q, err := queries.NewListFulfillmentOrdersQuery(queries.ListFilter{
			Status:     "Picking",
			Priority:   "urgent",
			AssignedTo: " team-vault ",
		}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.StatusPicking, *q.Status())
		assert.Equal(t, fulfillment.PriorityUrgent, *q.Priority())
		assert.Equal(t, "team-vault", *q.AssignedTo())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		to := from.Add(-time.Hour)

		_, err := queries.NewListFulfillmentOrdersQuery(queries.ListFilter{
			Status:      "lost",
			Priority:    "asap",
			CreatedFrom: &from,
			CreatedTo:   &to,
		}, -1, -1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		for _, field := range []string{"status", "priority", "createdFrom", "limit", "offset"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}

func TestNewGetShippingRatesQuery(t *testing.T) {
	_, err := queries.NewGetShippingRatesQuery(" ", 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	q, err := queries.NewGetShippingRatesQuery(" 10001 ", 1.5)
	require.NoError(t, err)
	assert.Equal(t, "10001", q.DestinationZip())
	assert.InDelta(t, 1.5, q.Weight(), 0)
}

func TestNewGetFulfillmentStatsQuery(t *testing.T) {
	require.NoError(t, queries.NewGetFulfillmentStatsQuery().Validate())
	require.ErrorIs(t, queries.GetFulfillmentStatsQuery{}.Validate(), queries.ErrGetFulfillmentStatsQueryIsNotConstructed)
}

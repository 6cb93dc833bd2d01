package fulfillment_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range fulfillment.AllStatuses() {
		parsed, err := fulfillment.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := fulfillment.ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, fulfillment.StatusShipped, parsed)

	_, err = fulfillment.ParseStatus("lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, fulfillment.StatusPending.Validate())
	require.ErrorIs(t, fulfillment.StatusUnknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, fulfillment.Status(42).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", fulfillment.Status(42).String())
}

func TestStatus_Precedes(t *testing.T) {
	assert.True(t, fulfillment.StatusPending.Precedes(fulfillment.StatusPicking))
	assert.True(t, fulfillment.StatusPicked.Precedes(fulfillment.StatusPacked))
	assert.True(t, fulfillment.StatusShipped.Precedes(fulfillment.StatusDelivered))
	assert.False(t, fulfillment.StatusPacked.Precedes(fulfillment.StatusPicked))
	assert.False(t, fulfillment.StatusPacked.Precedes(fulfillment.StatusPacked))
	assert.False(t, fulfillment.StatusPending.Precedes(fulfillment.StatusCancelled))
	assert.False(t, fulfillment.StatusCancelled.Precedes(fulfillment.StatusDelivered))
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, fulfillment.StatusDelivered.IsTerminal())
	assert.True(t, fulfillment.StatusCancelled.IsTerminal())
	assert.False(t, fulfillment.StatusShipped.IsTerminal())
	assert.True(t, fulfillment.StatusShipped.IsClosedForWork())
	assert.False(t, fulfillment.StatusPacked.IsClosedForWork())
}

func TestParsePriority(t *testing.T) {
	p, err := fulfillment.ParsePriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, fulfillment.PriorityUrgent, p)
	assert.Equal(t, "urgent", p.String())

	_, err = fulfillment.ParsePriority("asap")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, fulfillment.PriorityUnknown.Validate())
}

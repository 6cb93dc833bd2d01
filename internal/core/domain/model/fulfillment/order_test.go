package fulfillment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	createdAt = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	later     = createdAt.Add(2 * time.Hour)
)

func newTestOrder(t *testing.T, quantities ...int) *fulfillment.Order {
	t.Helper()
	lines := make([]fulfillment.Line, 0, len(quantities))
	for i, q := range quantities {
		lines = append(lines, fulfillment.Line{ProductRef: "RING-" + string(rune('A'+i)), Quantity: q, UnitPrice: 99.5})
	}
	o, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
		ID:            kernel.NewUUID(),
		Number:        "FUL-00000007",
		SourceOrderID: kernel.NewUUID(),
		Priority:      fulfillment.PriorityHigh,
		Lines:         lines,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with one item per line", func(t *testing.T) {
		assignee := "warehouse-1"
		o, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
			ID:            kernel.NewUUID(),
			Number:        "FUL-00000001",
			SourceOrderID: kernel.NewUUID(),
			Priority:      fulfillment.PriorityNormal,
			AssignedTo:    &assignee,
			Lines: []fulfillment.Line{
				{ProductRef: "RING-01", Quantity: 3, UnitPrice: 120},
				{ProductRef: "NECK-02", Quantity: 5, UnitPrice: 80},
			},
			CreatedAt: createdAt,
		})

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, fulfillment.StatusPending, o.Status())
		assert.Equal(t, "warehouse-1", *o.AssignedTo())
		assert.Nil(t, o.Shipping())
		assert.Empty(t, o.Packages())

		items := o.Items()
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].LineNumber())
		assert.Equal(t, "RING-01", items[0].ProductRef())
		assert.Equal(t, 3, items[0].QuantityOrdered())
		assert.Equal(t, 0, items[0].QuantityPicked())
		assert.True(t, items[1].OrderID().IsEqual(o.ID()))
		assert.Equal(t, fulfillment.Totals{Ordered: 8}, o.Totals())

		changes := o.PullStatusChanges()
		require.Len(t, changes, 1)
		assert.Equal(t, fulfillment.StatusPending, changes[0].Status())
		assert.Nil(t, changes[0].PreviousStatus())
		assert.Nil(t, changes[0].ChangedBy())
		assert.Empty(t, o.PullStatusChanges())
	})

	t.Run("rejects source order without lines", func(t *testing.T) {
		_, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
			ID: kernel.NewUUID(), Number: "FUL-1", SourceOrderID: kernel.NewUUID(),
			Priority: fulfillment.PriorityLow, CreatedAt: createdAt,
		})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		_, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
			ID: kernel.NewUUID(), Number: "FUL-1", SourceOrderID: kernel.NewUUID(),
			Priority: fulfillment.PriorityLow, CreatedAt: createdAt,
			Lines: []fulfillment.Line{{ProductRef: "A", Quantity: 1}, {ProductRef: "B", Quantity: 0}},
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("joins identity errors", func(t *testing.T) {
		_, err := fulfillment.NewOrder(fulfillment.NewOrderParams{Lines: []fulfillment.Line{{ProductRef: "A", Quantity: 1}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fulfillment order id")
		assert.Contains(t, err.Error(), "fulfillmentNumber")
		assert.Contains(t, err.Error(), "sourceOrderId")
		assert.Contains(t, err.Error(), "priority")
	})

	t.Run("rejects schedule running backwards", func(t *testing.T) {
		pickDate := createdAt.Add(48 * time.Hour)
		shipDate := createdAt.Add(24 * time.Hour)
		_, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
			ID: kernel.NewUUID(), Number: "FUL-1", SourceOrderID: kernel.NewUUID(),
			Priority: fulfillment.PriorityLow, CreatedAt: createdAt,
			Schedule: fulfillment.Schedule{EstimatedPickDate: &pickDate, EstimatedShipDate: &shipDate},
			Lines:    []fulfillment.Line{{ProductRef: "A", Quantity: 1}},
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_PickItem(t *testing.T) {
	t.Run("sets absolute quantity and stamps actor", func(t *testing.T) {
		o := newTestOrder(t, 4)
		itemID := o.Items()[0].ID()
		loc, _ := kernel.NewBinLocation("A-12-03", "B7")
		notes := "top shelf"

		item, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 2, PickedBy: "ana", Location: &loc, Notes: &notes}, later)

		require.NoError(t, err)
		assert.Equal(t, 2, item.QuantityPicked())
		assert.Equal(t, "ana", *item.PickedBy())
		assert.Equal(t, later, *item.PickedAt())
		assert.Equal(t, "A-12-03/B7", item.Location().String())
		assert.Equal(t, "top shelf", *item.Notes())
		assert.Equal(t, later, o.UpdatedAt())
	})

	t.Run("rejects quantity above ordered and leaves item unchanged", func(t *testing.T) {
		o := newTestOrder(t, 4)
		itemID := o.Items()[0].ID()

		_, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 10, PickedBy: "ana"}, later)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		item, _ := o.Item(itemID)
		assert.Equal(t, 0, item.QuantityPicked())
		assert.Nil(t, item.PickedBy())
	})

	t.Run("rejects lowering the picked quantity", func(t *testing.T) {
		o := newTestOrder(t, 4)
		itemID := o.Items()[0].ID()
		_, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 3, PickedBy: "ana"}, later)
		require.NoError(t, err)

		_, err = o.PickItem(itemID, fulfillment.PickInput{Quantity: 1, PickedBy: "ana"}, later)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		item, _ := o.Item(itemID)
		assert.Equal(t, 3, item.QuantityPicked())
	})

	t.Run("repeating the same quantity only refreshes the stamp", func(t *testing.T) {
		o := newTestOrder(t, 4)
		itemID := o.Items()[0].ID()
		_, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 3, PickedBy: "ana"}, createdAt)
		require.NoError(t, err)

		item, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 3, PickedBy: "carl"}, later)

		require.NoError(t, err)
		assert.Equal(t, 3, item.QuantityPicked())
		assert.Equal(t, "carl", *item.PickedBy())
		assert.Equal(t, later, *item.PickedAt())
	})

	t.Run("requires picker", func(t *testing.T) {
		o := newTestOrder(t, 4)
		_, err := o.PickItem(o.Items()[0].ID(), fulfillment.PickInput{Quantity: 1, PickedBy: "  "}, later)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unknown item", func(t *testing.T) {
		o := newTestOrder(t, 4)
		_, err := o.PickItem(kernel.NewUUID(), fulfillment.PickInput{Quantity: 1, PickedBy: "ana"}, later)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("closed order", func(t *testing.T) {
		o := newTestOrder(t, 4)
		require.NoError(t, o.ChangeStatus(fulfillment.StrictTransitionPolicy{},
			fulfillment.StatusUpdate{Status: fulfillment.StatusCancelled}, later))

		_, err := o.PickItem(o.Items()[0].ID(), fulfillment.PickInput{Quantity: 1, PickedBy: "ana"}, later)
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestOrder_PackItem(t *testing.T) {
	o := newTestOrder(t, 4)
	itemID := o.Items()[0].ID()
	_, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 3, PickedBy: "ana"}, later)
	require.NoError(t, err)

	_, err = o.PackItem(itemID, fulfillment.PackInput{Quantity: 4, PackedBy: "ben"}, later)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	item, err := o.PackItem(itemID, fulfillment.PackInput{Quantity: 3, PackedBy: "ben"}, later)
	require.NoError(t, err)
	assert.Equal(t, 3, item.QuantityPacked())
	assert.Equal(t, "ben", *item.PackedBy())

	_, err = o.PackItem(itemID, fulfillment.PackInput{Quantity: 2, PackedBy: "ben"}, later)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = o.PackItem(itemID, fulfillment.PackInput{Quantity: 3}, later)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("stamps dates and records ledger entries", func(t *testing.T) {
		o := newTestOrder(t, 1)
		o.PullStatusChanges()
		actor := "supervisor"
		policy := fulfillment.StrictTransitionPolicy{}

		require.NoError(t, o.ChangeStatus(policy, fulfillment.StatusUpdate{Status: fulfillment.StatusPicked}, later))
		assert.Equal(t, later, *o.ActualPickDate())

		shipAt := later.Add(time.Hour)
		require.NoError(t, o.ChangeStatus(policy, fulfillment.StatusUpdate{Status: fulfillment.StatusShipped}, shipAt))
		assert.Equal(t, shipAt, *o.ActualShipDate())

		deliveredAt := shipAt.Add(24 * time.Hour)
		require.NoError(t, o.ChangeStatus(policy, fulfillment.StatusUpdate{
			Status:    fulfillment.StatusDelivered,
			ChangedBy: &actor,
			Metadata:  map[string]any{"signed_by": "customer"},
		}, deliveredAt))
		assert.Equal(t, deliveredAt, *o.ActualDeliveryDate())

		changes := o.PullStatusChanges()
		require.Len(t, changes, 3)
		assert.Equal(t, fulfillment.StatusShipped, *changes[2].PreviousStatus())
		assert.Equal(t, "supervisor", *changes[2].ChangedBy())
		assert.Equal(t, "customer", changes[2].Metadata()["signed_by"])
	})

	t.Run("strict policy rejects jumps", func(t *testing.T) {
		o := newTestOrder(t, 1)
		o.PullStatusChanges()

		err := o.ChangeStatus(fulfillment.StrictTransitionPolicy{}, fulfillment.StatusUpdate{Status: fulfillment.StatusDelivered}, later)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, fulfillment.StatusPending, o.Status())
		assert.Empty(t, o.PullStatusChanges())
	})

	t.Run("permissive policy allows any non-initial target", func(t *testing.T) {
		o := newTestOrder(t, 1)

		require.NoError(t, o.ChangeStatus(fulfillment.PermissiveTransitionPolicy{}, fulfillment.StatusUpdate{Status: fulfillment.StatusDelivered}, later))
		assert.Equal(t, fulfillment.StatusDelivered, o.Status())
		require.ErrorIs(t, o.ChangeStatus(fulfillment.PermissiveTransitionPolicy{},
			fulfillment.StatusUpdate{Status: fulfillment.StatusPending}, later), errs.ErrValueIsInvalid)
	})
}

func TestOrder_Ship(t *testing.T) {
	weight := 1.2
	dims, err := fulfillment.NewDimensions(10, 8, 4)
	require.NoError(t, err)
	in := fulfillment.ShipmentInput{Carrier: "ups", Method: "ground", TrackingNumber: "1Z999", Weight: &weight, Dimensions: &dims}

	t.Run("creates package and moves to shipped", func(t *testing.T) {
		o := newTestOrder(t, 2)
		itemID := o.Items()[0].ID()
		_, err := o.PickItem(itemID, fulfillment.PickInput{Quantity: 2, PickedBy: "ana"}, later)
		require.NoError(t, err)
		_, err = o.PackItem(itemID, fulfillment.PackInput{Quantity: 1, PackedBy: "ben"}, later)
		require.NoError(t, err)
		o.PullStatusChanges()

		pkg, err := o.Ship(fulfillment.DefaultPolicy(), in, kernel.NewUUID(), "PKG-001", later)

		require.NoError(t, err)
		assert.Equal(t, "PKG-001", pkg.PackageNumber())
		assert.Equal(t, later, pkg.ShippedAt())
		assert.Equal(t, fulfillment.StatusShipped, o.Status())
		assert.Equal(t, later, *o.ActualShipDate())
		assert.Equal(t, "ups", o.Shipping().Carrier)
		assert.Equal(t, "1Z999", o.Shipping().TrackingNumber)
		assert.Len(t, o.Packages(), 1)
		assert.Equal(t, 1, o.Items()[0].QuantityShipped())

		changes := o.PullStatusChanges()
		require.Len(t, changes, 1)
		assert.Equal(t, "Package shipped via ups", *changes[0].Notes())
	})

	t.Run("ships only once", func(t *testing.T) {
		o := newTestOrder(t, 1)
		_, err := o.Ship(fulfillment.DefaultPolicy(), in, kernel.NewUUID(), "PKG-001", later)
		require.NoError(t, err)

		_, err = o.Ship(fulfillment.NewPolicy(false, fulfillment.ShipPermissive), in, kernel.NewUUID(), "PKG-002", later)
		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Len(t, o.Packages(), 1)
	})

	t.Run("requires carrier and tracking number", func(t *testing.T) {
		o := newTestOrder(t, 1)
		err := o.CanShip(fulfillment.DefaultPolicy(), fulfillment.ShipmentInput{Method: "ground"})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "carrier")
		assert.Contains(t, err.Error(), "trackingNumber")
	})

	t.Run("require packed policy", func(t *testing.T) {
		o := newTestOrder(t, 1)
		policy := fulfillment.NewPolicy(true, fulfillment.ShipRequiresPacked)

		_, err := o.Ship(policy, in, kernel.NewUUID(), "PKG-001", later)
		require.ErrorIs(t, err, errs.ErrInvalidState)

		require.NoError(t, o.ChangeStatus(policy.Transitions, fulfillment.StatusUpdate{Status: fulfillment.StatusPacked}, later))
		_, err = o.Ship(policy, in, kernel.NewUUID(), "PKG-001", later)
		require.NoError(t, err)
	})

	t.Run("delivery stamps packages", func(t *testing.T) {
		o := newTestOrder(t, 1)
		pkg, err := o.Ship(fulfillment.DefaultPolicy(), in, kernel.NewUUID(), "PKG-001", later)
		require.NoError(t, err)

		deliveredAt := later.Add(72 * time.Hour)
		require.NoError(t, o.ChangeStatus(fulfillment.StrictTransitionPolicy{},
			fulfillment.StatusUpdate{Status: fulfillment.StatusDelivered}, deliveredAt))

		assert.Equal(t, deliveredAt, *pkg.DeliveredAt())
	})

	t.Run("cancelled order cannot ship", func(t *testing.T) {
		o := newTestOrder(t, 1)
		require.NoError(t, o.ChangeStatus(fulfillment.StrictTransitionPolicy{},
			fulfillment.StatusUpdate{Status: fulfillment.StatusCancelled}, later))

		_, err := o.Ship(fulfillment.DefaultPolicy(), in, kernel.NewUUID(), "PKG-001", later)
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestRestoreOrder(t *testing.T) {
	orderID := kernel.NewUUID()
	item, err := fulfillment.RestoreItem(fulfillment.RestoreItemParams{
		ID: kernel.NewUUID(), OrderID: orderID, LineNumber: 1, ProductRef: "RING-01",
		QuantityOrdered: 3, QuantityPicked: 3, QuantityPacked: 2,
	})
	require.NoError(t, err)

	o, err := fulfillment.RestoreOrder(fulfillment.RestoreOrderParams{
		ID: orderID, Number: "FUL-00000003", SourceOrderID: kernel.NewUUID(),
		Status: fulfillment.StatusPicked, Priority: fulfillment.PriorityLow,
		CreatedAt: createdAt, UpdatedAt: later, Items: []*fulfillment.Item{item},
	})

	require.NoError(t, err)
	assert.Equal(t, fulfillment.StatusPicked, o.Status())
	assert.Empty(t, o.PullStatusChanges())
	assert.Equal(t, fulfillment.Totals{Ordered: 3, Picked: 3, Packed: 2}, o.Totals())

	_, err = fulfillment.RestoreItem(fulfillment.RestoreItemParams{
		ID: kernel.NewUUID(), OrderID: orderID, ProductRef: "X", QuantityOrdered: 2, QuantityPicked: 1, QuantityPacked: 2,
	})
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestScenario_PickPackShip(t *testing.T) {
	o := newTestOrder(t, 3, 5)
	first, second := o.Items()[0].ID(), o.Items()[1].ID()

	_, err := o.PickItem(first, fulfillment.PickInput{Quantity: 3, PickedBy: "ana"}, later)
	require.NoError(t, err)
	_, err = o.PickItem(second, fulfillment.PickInput{Quantity: 2, PickedBy: "ana"}, later)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.Totals{Ordered: 8, Picked: 5}, o.Totals())

	for _, item := range o.Items() {
		assert.LessOrEqual(t, item.QuantityPacked(), item.QuantityPicked())
		assert.LessOrEqual(t, item.QuantityPicked(), item.QuantityOrdered())
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestMember(t *testing.T) *Member {
	t.Helper()
	addr, err := NewAddress("Anyang", "Anyangcheonseo-ro", "177")
	require.NoError(t, err)
	member, err := NewMember("member1", addr)
	require.NoError(t, err)
	member.AssignID(1)
	return member
}

func newTestOrder(t *testing.T, item *Item, quantity int) *Order {
	t.Helper()
	member := newTestMember(t)
	shipment, err := NewShipment(member.Address())
	require.NoError(t, err)
	line, err := NewOrderLine(item, item.Price(), quantity)
	require.NoError(t, err)
	order, err := CreateOrder(member, shipment, line)
	require.NoError(t, err)
	return order
}

func TestCreateOrder_LinksBothSides(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	member := newTestMember(t)
	shipment, err := NewShipment(member.Address())
	require.NoError(t, err)
	first, err := NewOrderLine(item, 10000, 2)
	require.NoError(t, err)
	second, err := NewOrderLine(item, 9000, 1)
	require.NoError(t, err)

	order, err := CreateOrder(member, shipment, first, second)
	require.NoError(t, err)

	require.Equal(t, StatusPlaced, order.Status())
	require.False(t, order.OrderedAt().IsZero())
	require.Same(t, member, order.Member())
	require.Equal(t, []*Order{order}, member.Orders())
	require.Same(t, order, shipment.Order())
	require.Equal(t, ShipmentPreparing, shipment.Status())
	require.Equal(t, []*OrderLine{first, second}, order.Lines())
	for _, line := range order.Lines() {
		require.Same(t, order, line.Order())
	}
	require.Equal(t, int64(29000), order.TotalPrice())
	require.Equal(t, 7, item.StockQuantity())
}

func TestCreateOrder_RejectsInvalidComposition(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	member := newTestMember(t)
	shipment, err := NewShipment(member.Address())
	require.NoError(t, err)
	line, err := NewOrderLine(item, 10000, 1)
	require.NoError(t, err)

	_, err = CreateOrder(nil, shipment, line)
	require.ErrorIs(t, err, ErrMemberRequired)
	_, err = CreateOrder(member, nil, line)
	require.ErrorIs(t, err, ErrShipmentRequired)
	_, err = CreateOrder(member, shipment)
	require.ErrorIs(t, err, ErrNoOrderLines)
	require.Empty(t, member.Orders())

	_, err = CreateOrder(member, shipment, line)
	require.NoError(t, err)

	otherShipment, err := NewShipment(member.Address())
	require.NoError(t, err)
	_, err = CreateOrder(member, otherShipment, line)
	require.ErrorIs(t, err, ErrLineAlreadyInOrder)
	require.Len(t, member.Orders(), 1)
}

func TestNewOrderLine_InsufficientStock(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	line, err := NewOrderLine(item, 10000, 11)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Nil(t, line)
	require.Equal(t, 10, item.StockQuantity())
}

func TestCancel_RestoresStock(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 2)
	require.Equal(t, 8, item.StockQuantity())
	require.Equal(t, int64(20000), order.TotalPrice())

	require.NoError(t, order.Cancel())
	require.Equal(t, StatusCancelled, order.Status())
	require.Equal(t, 10, item.StockQuantity())
	for _, line := range order.Lines() {
		require.True(t, line.Restocked())
	}
}

func TestCancel_TwiceDoesNotDoubleRestore(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 2)
	require.NoError(t, order.Cancel())

	err := order.Cancel()
	require.ErrorIs(t, err, ErrOrderAlreadyCancelled)
	require.ErrorIs(t, err, ErrInvalidOrderState)
	require.Equal(t, 10, item.StockQuantity())
}

func TestCancel_LineRestocksOnlyOnce(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	line, err := NewOrderLine(item, 10000, 4)
	require.NoError(t, err)
	require.NoError(t, line.cancel())
	require.NoError(t, line.cancel())
	require.Equal(t, 10, item.StockQuantity())
}

func TestCancel_DeliveredOrderIsRejected(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 2)
	require.NoError(t, order.Ship())
	require.NoError(t, order.CompleteDelivery())

	err := order.Cancel()
	require.ErrorIs(t, err, ErrOrderDelivered)
	require.ErrorIs(t, err, ErrInvalidOrderState)
	require.Equal(t, StatusPlaced, order.Status())
	require.Equal(t, 8, item.StockQuantity())
	require.Equal(t, ShipmentDelivered, order.Shipment().Status())
}

func TestCancel_ShippedOrderCanStillBeCancelled(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 2)
	require.NoError(t, order.Ship())
	require.NoError(t, order.Cancel())
	require.Equal(t, 10, item.StockQuantity())
}

func TestShipmentTransitions(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 1)

	require.ErrorIs(t, order.CompleteDelivery(), ErrInvalidOrderState)
	require.NoError(t, order.Ship())
	require.ErrorIs(t, order.Ship(), ErrInvalidOrderState)

	cancelled := newTestOrder(t, item, 1)
	require.NoError(t, cancelled.Cancel())
	require.ErrorIs(t, cancelled.Ship(), ErrOrderCancelled)
}

func TestEvents_PickUpAssignedID(t *testing.T) {
	item := RestoreItem(3, "JPA book", 10000, 10)
	order := newTestOrder(t, item, 2)

	order.AssignID(42)
	require.NoError(t, order.Cancel())

	events := order.Events()
	require.Len(t, events, 2)
	placed, ok := events[0].(OrderPlaced)
	require.True(t, ok)
	require.Equal(t, int64(42), placed.OrderID)
	require.Equal(t, int64(1), placed.MemberID)
	require.Equal(t, int64(20000), placed.TotalPrice)
	require.Equal(t, []PlacedLine{{ItemID: 3, OrderPrice: 10000, Quantity: 2}}, placed.Lines)
	cancelled, ok := events[1].(OrderCancelled)
	require.True(t, ok)
	require.Equal(t, int64(42), cancelled.OrderID)

	order.ClearEvents()
	require.Empty(t, order.Events())
}

func TestRestoreOrder_RejectsUnknownStatus(t *testing.T) {
	member := newTestMember(t)
	shipment, err := RestoreShipment(1, member.Address(), ShipmentPreparing)
	require.NoError(t, err)
	_, err = RestoreOrder(1, member, shipment, time.Now(), Status("archived"), nil)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

package mapper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

func TestToCheckoutInput_MergesSingleItemAndLines(t *testing.T) {
	form := OrderForm{
		MemberID: 3,
		ItemID:   10,
		Count:    2,
		Lines:    []OrderLineForm{{ItemID: 11, Quantity: 1}},
		ShipTo:   &Address{City: "Busan", Street: "2"},
	}
	input := ToCheckoutInput(form, "key-1")
	require.Equal(t, int64(3), input.MemberID)
	require.Equal(t, "key-1", input.IdempotencyKey)
	require.Len(t, input.Lines, 2)
	require.Equal(t, int64(10), input.Lines[0].ItemID)
	require.Equal(t, 2, input.Lines[0].Quantity)
	require.Equal(t, int64(11), input.Lines[1].ItemID)
	require.NotNil(t, input.ShipTo)
	require.Equal(t, "Busan", input.ShipTo.City)

	linesOnly := ToCheckoutInput(OrderForm{MemberID: 1, Lines: []OrderLineForm{{ItemID: 5, Quantity: 4}}}, "")
	require.Len(t, linesOnly.Lines, 1)
	require.Nil(t, linesOnly.ShipTo)
}

func TestFromOrder(t *testing.T) {
	addr, err := domain.NewAddress("Seoul", "1", "123")
	require.NoError(t, err)
	member, err := domain.NewMember("kim", addr)
	require.NoError(t, err)
	member.AssignID(1)
	item, err := domain.NewItem("JPA Book", 100, 10)
	require.NoError(t, err)
	item.AssignID(2)
	line, err := domain.NewOrderLine(item, item.Price(), 3)
	require.NoError(t, err)
	shipment, err := domain.NewShipment(addr)
	require.NoError(t, err)
	order, err := domain.CreateOrder(member, shipment, line)
	require.NoError(t, err)
	order.AssignID(9)

	out := FromOrder(order)
	require.Equal(t, int64(9), out.ID)
	require.Equal(t, "kim", out.MemberName)
	require.Equal(t, string(domain.StatusPlaced), out.Status)
	require.Equal(t, int64(300), out.TotalPrice)
	require.Equal(t, string(domain.ShipmentPreparing), out.Shipment.Status)
	require.Equal(t, "Seoul", out.Shipment.Address.City)
	require.Len(t, out.Lines, 1)
	require.Equal(t, "JPA Book", out.Lines[0].ItemName)
	require.Equal(t, 7, FromItem(item).StockQuantity)

	require.Equal(t, Order{}, FromOrder(nil))
	require.Empty(t, FromOrderList(nil))
}

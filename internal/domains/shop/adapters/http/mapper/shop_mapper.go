package mapper

import (
	"time"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

// Address is the HTTP representation of a postal address.
type Address struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode,omitempty"`
}

// MemberForm carries the join payload.
type MemberForm struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// ItemForm carries register and update payloads for catalog items.
type ItemForm struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
}

// RestockForm carries the quantity added back to an item.
type RestockForm struct {
	Quantity int `json:"quantity"`
}

// OrderLineForm is a single requested item and quantity.
type OrderLineForm struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// OrderForm accepts either the single-item shape (itemId, count) or a list of lines.
type OrderForm struct {
	MemberID int64           `json:"memberId"`
	ItemID   int64           `json:"itemId,omitempty"`
	Count    int             `json:"count,omitempty"`
	Lines    []OrderLineForm `json:"lines,omitempty"`
	ShipTo   *Address        `json:"shipTo,omitempty"`
}

// Member is the HTTP representation of a member.
type Member struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Item is the HTTP representation of a catalog item.
type Item struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
}

// Shipment is the HTTP representation of an order's delivery.
type Shipment struct {
	ID      int64   `json:"id"`
	Status  string  `json:"status"`
	Address Address `json:"address"`
}

// OrderLine is the HTTP representation of an order line.
type OrderLine struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"itemId"`
	ItemName   string `json:"itemName"`
	OrderPrice int64  `json:"orderPrice"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"totalPrice"`
}

// Order is the HTTP representation of an order aggregate.
type Order struct {
	ID         int64       `json:"id"`
	MemberID   int64       `json:"memberId"`
	MemberName string      `json:"memberName"`
	Status     string      `json:"status"`
	OrderedAt  time.Time   `json:"orderedAt"`
	TotalPrice int64       `json:"totalPrice"`
	Shipment   Shipment    `json:"shipment"`
	Lines      []OrderLine `json:"lines"`
}

// Created is the body returned by create endpoints.
type Created struct {
	ID int64 `json:"id"`
}

// ToAddressInput maps a transport address into the application input.
func ToAddressInput(a Address) shoptypes.AddressInput {
	return shoptypes.AddressInput{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

// ToJoinMemberInput maps the join payload.
func ToJoinMemberInput(form MemberForm) shoptypes.JoinMemberInput {
	return shoptypes.JoinMemberInput{Name: form.Name, Address: ToAddressInput(form.Address)}
}

// ToRegisterItemInput maps the register payload.
func ToRegisterItemInput(form ItemForm) shoptypes.RegisterItemInput {
	return shoptypes.RegisterItemInput{Name: form.Name, Price: form.Price, StockQuantity: form.StockQuantity}
}

// ToUpdateItemInput maps the update payload. Stock is not changed through updates.
func ToUpdateItemInput(id int64, form ItemForm) shoptypes.UpdateItemInput {
	return shoptypes.UpdateItemInput{ID: id, Name: form.Name, Price: form.Price}
}

// ToCheckoutInput maps an order payload. The single-item fields become the first line.
func ToCheckoutInput(form OrderForm, idempotencyKey string) shoptypes.CheckoutInput {
	input := shoptypes.CheckoutInput{MemberID: form.MemberID, IdempotencyKey: idempotencyKey}
	if form.ItemID != 0 || form.Count != 0 {
		input.Lines = append(input.Lines, shoptypes.CheckoutLineInput{ItemID: form.ItemID, Quantity: form.Count})
	}
	for _, line := range form.Lines {
		input.Lines = append(input.Lines, shoptypes.CheckoutLineInput{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	if form.ShipTo != nil {
		shipTo := ToAddressInput(*form.ShipTo)
		input.ShipTo = &shipTo
	}
	return input
}

// FromAddress maps a domain address.
func FromAddress(a domain.Address) Address {
	return Address{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

// FromMember maps a domain member.
func FromMember(m *domain.Member) Member {
	if m == nil {
		return Member{}
	}
	return Member{ID: m.ID(), Name: m.Name(), Address: FromAddress(m.Address())}
}

// FromMemberList maps a slice of members.
func FromMemberList(members []*domain.Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		out = append(out, FromMember(m))
	}
	return out
}

// FromItem maps a domain item.
func FromItem(i *domain.Item) Item {
	if i == nil {
		return Item{}
	}
	return Item{ID: i.ID(), Name: i.Name(), Price: i.Price(), StockQuantity: i.StockQuantity()}
}

// FromItemList maps a slice of items.
func FromItemList(items []*domain.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, i := range items {
		out = append(out, FromItem(i))
	}
	return out
}

// FromOrder maps a domain order including its shipment and lines.
func FromOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	out := Order{
		ID:         o.ID(),
		Status:     string(o.Status()),
		OrderedAt:  o.OrderedAt(),
		TotalPrice: o.TotalPrice(),
		Lines:      make([]OrderLine, 0, len(o.Lines())),
	}
	if m := o.Member(); m != nil {
		out.MemberID = m.ID()
		out.MemberName = m.Name()
	}
	if s := o.Shipment(); s != nil {
		out.Shipment = Shipment{ID: s.ID(), Status: string(s.Status()), Address: FromAddress(s.Address())}
	}
	for _, line := range o.Lines() {
		mapped := OrderLine{
			ID:         line.ID(),
			OrderPrice: line.OrderPrice(),
			Quantity:   line.Quantity(),
			TotalPrice: line.TotalPrice(),
		}
		if item := line.Item(); item != nil {
			mapped.ItemID = item.ID()
			mapped.ItemName = item.Name()
		}
		out.Lines = append(out.Lines, mapped)
	}
	return out
}

// FromOrderList maps a slice of orders.
func FromOrderList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

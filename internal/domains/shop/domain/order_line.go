package domain

import "errors"

var ErrItemRequired = errors.New("order line requires an item")

// OrderLine records one item, its price at order time, and the ordered quantity.
type OrderLine struct {
	id         int64
	item       *Item
	order      *Order
	orderPrice int64
	quantity   int
	restocked  bool
}

// NewOrderLine takes quantity out of the item's stock. When the stock cannot
// cover it no line is returned and the item is left untouched.
func NewOrderLine(item *Item, orderPrice int64, quantity int) (*OrderLine, error) {
	if item == nil {
		return nil, ErrItemRequired
	}
	if orderPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if _, err := item.DecreaseStock(quantity); err != nil {
		return nil, err
	}
	return &OrderLine{item: item, orderPrice: orderPrice, quantity: quantity}, nil
}

// RestoreOrderLine rebuilds a persisted line without touching stock.
func RestoreOrderLine(id int64, item *Item, orderPrice int64, quantity int, restocked bool) *OrderLine {
	return &OrderLine{id: id, item: item, orderPrice: orderPrice, quantity: quantity, restocked: restocked}
}

func (l *OrderLine) ID() int64         { return l.id }
func (l *OrderLine) Item() *Item       { return l.item }
func (l *OrderLine) Order() *Order     { return l.order }
func (l *OrderLine) OrderPrice() int64 { return l.orderPrice }
func (l *OrderLine) Quantity() int     { return l.quantity }

// Restocked reports whether the line already gave its quantity back to stock.
func (l *OrderLine) Restocked() bool { return l.restocked }

// AssignID records the identity generated by persistence. It is a no-op once set.
func (l *OrderLine) AssignID(id int64) {
	if l.id == 0 {
		l.id = id
	}
}

// TotalPrice is orderPrice × quantity.
func (l *OrderLine) TotalPrice() int64 {
	return l.orderPrice * int64(l.quantity)
}

// cancel returns the quantity to stock once; later calls do nothing.
func (l *OrderLine) cancel() error {
	if l.restocked {
		return nil
	}
	if _, err := l.item.IncreaseStock(l.quantity); err != nil {
		return err
	}
	l.restocked = true
	return nil
}

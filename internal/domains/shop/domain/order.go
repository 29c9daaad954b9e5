package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidStatus      = errors.New("order status is invalid")
	ErrMemberRequired     = errors.New("order requires a member")
	ErrShipmentRequired   = errors.New("order requires a shipment")
	ErrNoOrderLines       = errors.New("order requires at least one line")
	ErrLineAlreadyInOrder = errors.New("order line already belongs to an order")
	ErrShipmentInUse      = errors.New("shipment already belongs to an order")

	// ErrInvalidOrderState is matched by every rejected order state transition.
	ErrInvalidOrderState     = errors.New("invalid order state")
	ErrOrderDelivered        = fmt.Errorf("%w: cannot cancel a delivered order", ErrInvalidOrderState)
	ErrOrderAlreadyCancelled = fmt.Errorf("%w: order is already cancelled", ErrInvalidOrderState)
	ErrOrderCancelled        = fmt.Errorf("%w: order is cancelled", ErrInvalidOrderState)
)

// Order is the aggregate root coordinating member, shipment, and lines.
type Order struct {
	id        int64
	member    *Member
	shipment  *Shipment
	lines     []*OrderLine
	orderedAt time.Time
	status    Status
	events    []Event
}

// CreateOrder links an already-built set of lines to a member and shipment.
// Lines have taken their stock by the time they get here; this does not touch inventory.
func CreateOrder(member *Member, shipment *Shipment, lines ...*OrderLine) (*Order, error) {
	if member == nil {
		return nil, ErrMemberRequired
	}
	if shipment == nil {
		return nil, ErrShipmentRequired
	}
	if shipment.order != nil {
		return nil, ErrShipmentInUse
	}
	if len(lines) == 0 {
		return nil, ErrNoOrderLines
	}
	for _, line := range lines {
		if line == nil {
			return nil, ErrNoOrderLines
		}
		if line.order != nil {
			return nil, ErrLineAlreadyInOrder
		}
	}

	order := &Order{}
	order.setMember(member)
	order.setShipment(shipment)
	for _, line := range lines {
		order.addLine(line)
	}
	order.orderedAt = time.Now().UTC()
	order.status = StatusPlaced
	order.record(OrderPlaced{
		BaseEvent:  BaseEvent{Timestamp: order.orderedAt},
		MemberID:   member.ID(),
		TotalPrice: order.TotalPrice(),
		Lines:      placedLines(lines),
	})
	return order, nil
}

// RestoreOrder rebuilds a persisted order and relinks both sides of each association.
func RestoreOrder(id int64, member *Member, shipment *Shipment, orderedAt time.Time, status Status, lines []*OrderLine) (*Order, error) {
	if !status.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if member == nil {
		return nil, ErrMemberRequired
	}
	if shipment == nil {
		return nil, ErrShipmentRequired
	}
	order := &Order{id: id, orderedAt: orderedAt, status: status}
	order.setMember(member)
	order.setShipment(shipment)
	for _, line := range lines {
		order.addLine(line)
	}
	return order, nil
}

func (o *Order) ID() int64            { return o.id }
func (o *Order) Member() *Member      { return o.member }
func (o *Order) Shipment() *Shipment  { return o.shipment }
func (o *Order) OrderedAt() time.Time { return o.orderedAt }
func (o *Order) Status() Status       { return o.status }

// Lines returns the order lines in the order they were added.
func (o *Order) Lines() []*OrderLine {
	return append([]*OrderLine(nil), o.lines...)
}

// AssignID records the identity generated by persistence. Events raised
// before the order had an id pick it up here.
func (o *Order) AssignID(id int64) {
	if o.id != 0 {
		return
	}
	o.id = id
	for i, event := range o.events {
		if oe, ok := event.(orderEvent); ok {
			o.events[i] = oe.withOrderID(id)
		}
	}
}

// TotalPrice sums the line totals.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, line := range o.lines {
		total += line.TotalPrice()
	}
	return total
}

// Cancel flips the order to cancelled and returns each line's quantity to stock.
// Nothing changes when the order is already cancelled or its shipment was delivered.
func (o *Order) Cancel() error {
	if o.status == StatusCancelled {
		return ErrOrderAlreadyCancelled
	}
	if o.shipment != nil && o.shipment.delivered() {
		return ErrOrderDelivered
	}
	for _, line := range o.lines {
		if !line.restocked && line.quantity <= 0 {
			return fmt.Errorf("order line %d: %w", line.id, ErrInvalidQuantity)
		}
	}

	o.status = StatusCancelled
	for _, line := range o.lines {
		if err := line.cancel(); err != nil {
			return err
		}
	}
	o.record(OrderCancelled{BaseEvent: BaseEvent{Timestamp: time.Now().UTC()}, OrderID: o.id})
	return nil
}

// Ship hands the shipment to the carrier.
func (o *Order) Ship() error {
	if o.status == StatusCancelled {
		return ErrOrderCancelled
	}
	if err := o.shipment.advance(ShipmentShipped); err != nil {
		return err
	}
	o.record(OrderShipped{BaseEvent: BaseEvent{Timestamp: time.Now().UTC()}, OrderID: o.id})
	return nil
}

// CompleteDelivery marks the shipment delivered. A delivered order can no longer be cancelled.
func (o *Order) CompleteDelivery() error {
	if o.status == StatusCancelled {
		return ErrOrderCancelled
	}
	if err := o.shipment.advance(ShipmentDelivered); err != nil {
		return err
	}
	o.record(OrderDelivered{BaseEvent: BaseEvent{Timestamp: time.Now().UTC()}, OrderID: o.id})
	return nil
}

// Events returns the domain events raised since the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

// ClearEvents drops recorded events once they have been dispatched.
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) setMember(member *Member) {
	o.member = member
	member.addOrder(o)
}

func (o *Order) setShipment(shipment *Shipment) {
	o.shipment = shipment
	shipment.order = o
}

func (o *Order) addLine(line *OrderLine) {
	o.lines = append(o.lines, line)
	line.order = o
}

func (o *Order) record(event orderEvent) {
	if o.id != 0 {
		event = event.withOrderID(o.id)
	}
	o.events = append(o.events, event)
}

func (s Status) valid() bool {
	switch s {
	case StatusPlaced, StatusCancelled:
		return true
	default:
		return false
	}
}

func placedLines(lines []*OrderLine) []PlacedLine {
	out := make([]PlacedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, PlacedLine{
			ItemID:     line.item.ID(),
			OrderPrice: line.orderPrice,
			Quantity:   line.quantity,
		})
	}
	return out
}

package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

type orderEvent interface {
	Event
	withOrderID(id int64) orderEvent
}

// PlacedLine summarises one line of a placed order.
type PlacedLine struct {
	ItemID     int64
	OrderPrice int64
	Quantity   int
}

// OrderPlaced is raised when an order is created.
type OrderPlaced struct {
	BaseEvent
	OrderID    int64
	MemberID   int64
	TotalPrice int64
	Lines      []PlacedLine
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "shop.order.placed"
}

func (e OrderPlaced) withOrderID(id int64) orderEvent {
	if e.OrderID == 0 {
		e.OrderID = id
	}
	return e
}

// OrderCancelled is raised when an order is cancelled and its stock restored.
type OrderCancelled struct {
	BaseEvent
	OrderID int64
}

// EventName returns the event type identifier.
func (e OrderCancelled) EventName() string {
	return "shop.order.cancelled"
}

func (e OrderCancelled) withOrderID(id int64) orderEvent {
	if e.OrderID == 0 {
		e.OrderID = id
	}
	return e
}

// OrderShipped is raised when the shipment leaves the warehouse.
type OrderShipped struct {
	BaseEvent
	OrderID int64
}

// EventName returns the event type identifier.
func (e OrderShipped) EventName() string {
	return "shop.order.shipped"
}

func (e OrderShipped) withOrderID(id int64) orderEvent {
	if e.OrderID == 0 {
		e.OrderID = id
	}
	return e
}

// OrderDelivered is raised when the shipment reaches the member.
type OrderDelivered struct {
	BaseEvent
	OrderID int64
}

// EventName returns the event type identifier.
func (e OrderDelivered) EventName() string {
	return "shop.order.delivered"
}

func (e OrderDelivered) withOrderID(id int64) orderEvent {
	if e.OrderID == 0 {
		e.OrderID = id
	}
	return e
}

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}

var _ AggregateWithEvents = (*Order)(nil)

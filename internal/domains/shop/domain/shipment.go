package domain

import (
	"errors"
	"fmt"
)

// ShipmentStatus enumerates delivery progression.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "preparing"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentDelivered ShipmentStatus = "delivered"
)

var ErrInvalidShipmentStatus = errors.New("shipment status is invalid")

// Shipment holds the delivery state of exactly one order.
type Shipment struct {
	id      int64
	address Address
	status  ShipmentStatus
	order   *Order
}

// NewShipment prepares a delivery to the given address.
func NewShipment(address Address) (*Shipment, error) {
	if address.IsZero() {
		return nil, ErrIncompleteAddress
	}
	return &Shipment{address: address, status: ShipmentPreparing}, nil
}

// RestoreShipment rebuilds a persisted shipment.
func RestoreShipment(id int64, address Address, status ShipmentStatus) (*Shipment, error) {
	if !status.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShipmentStatus, status)
	}
	return &Shipment{id: id, address: address, status: status}, nil
}

func (s *Shipment) ID() int64              { return s.id }
func (s *Shipment) Address() Address       { return s.address }
func (s *Shipment) Status() ShipmentStatus { return s.status }
func (s *Shipment) Order() *Order          { return s.order }

// AssignID records the identity generated by persistence. It is a no-op once set.
func (s *Shipment) AssignID(id int64) {
	if s.id == 0 {
		s.id = id
	}
}

func (s *Shipment) delivered() bool {
	return s.status == ShipmentDelivered
}

func (s *Shipment) advance(to ShipmentStatus) error {
	switch {
	case s.status == ShipmentPreparing && to == ShipmentShipped,
		s.status == ShipmentShipped && to == ShipmentDelivered:
		s.status = to
		return nil
	default:
		return fmt.Errorf("%w: shipment cannot move from %s to %s", ErrInvalidOrderState, s.status, to)
	}
}

func (s ShipmentStatus) valid() bool {
	switch s {
	case ShipmentPreparing, ShipmentShipped, ShipmentDelivered:
		return true
	default:
		return false
	}
}

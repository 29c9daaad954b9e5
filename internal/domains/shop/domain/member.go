package domain

import (
	"errors"
	"strings"
)

var ErrEmptyMemberName = errors.New("member name is required")

// Member is a customer of the shop. Its order collection is a navigation
// convenience; Order owns the association.
type Member struct {
	id      int64
	name    string
	address Address
	orders  []*Order
}

// NewMember builds an unsaved member.
func NewMember(name string, address Address) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyMemberName
	}
	return &Member{name: name, address: address}, nil
}

// RestoreMember rebuilds a persisted member.
func RestoreMember(id int64, name string, address Address) *Member {
	return &Member{id: id, name: name, address: address}
}

func (m *Member) ID() int64        { return m.id }
func (m *Member) Name() string     { return m.name }
func (m *Member) Address() Address { return m.address }

// Orders returns the orders linked to this member so far.
func (m *Member) Orders() []*Order {
	return append([]*Order(nil), m.orders...)
}

// AssignID records the identity generated by persistence. It is a no-op once set.
func (m *Member) AssignID(id int64) {
	if m.id == 0 {
		m.id = id
	}
}

func (m *Member) addOrder(o *Order) {
	for _, existing := range m.orders {
		if existing == o {
			return
		}
	}
	m.orders = append(m.orders, o)
}

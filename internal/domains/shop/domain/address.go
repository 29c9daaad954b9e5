package domain

import (
	"errors"
	"strings"
)

var ErrIncompleteAddress = errors.New("address requires city and street")

// Address is an embedded value object owned by a member or a shipment.
type Address struct {
	city    string
	street  string
	zipcode string
}

// NewAddress trims and validates the address parts.
func NewAddress(city, street, zipcode string) (Address, error) {
	addr := Address{
		city:    strings.TrimSpace(city),
		street:  strings.TrimSpace(street),
		zipcode: strings.TrimSpace(zipcode),
	}
	if addr.city == "" || addr.street == "" {
		return Address{}, ErrIncompleteAddress
	}
	return addr, nil
}

func (a Address) City() string    { return a.city }
func (a Address) Street() string  { return a.street }
func (a Address) Zipcode() string { return a.zipcode }

// FullAddress renders the address on one line.
func (a Address) FullAddress() string {
	return a.city + " " + a.street + " " + a.zipcode
}

// IsZero reports whether no address was supplied.
func (a Address) IsZero() bool {
	return a == Address{}
}

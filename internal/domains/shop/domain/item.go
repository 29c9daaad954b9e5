package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyItemName     = errors.New("item name is required")
	ErrInvalidPrice      = errors.New("price must be greater or equal to zero")
	ErrNegativeStock     = errors.New("stock quantity must be greater or equal to zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a stock decrement larger than the quantity on hand.
type InsufficientStockError struct {
	ItemID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Item is a sellable inventory entry. Stock only changes through
// DecreaseStock and IncreaseStock.
type Item struct {
	id            int64
	name          string
	price         int64
	stockQuantity int
}

// NewItem validates and builds an unsaved item. Price is in minor currency units.
func NewItem(name string, price int64, stockQuantity int) (*Item, error) {
	item := &Item{}
	if err := item.ChangeDetails(name, price); err != nil {
		return nil, err
	}
	if stockQuantity < 0 {
		return nil, ErrNegativeStock
	}
	item.stockQuantity = stockQuantity
	return item, nil
}

// RestoreItem rebuilds a persisted item.
func RestoreItem(id int64, name string, price int64, stockQuantity int) *Item {
	return &Item{id: id, name: name, price: price, stockQuantity: stockQuantity}
}

func (i *Item) ID() int64          { return i.id }
func (i *Item) Name() string       { return i.name }
func (i *Item) Price() int64       { return i.price }
func (i *Item) StockQuantity() int { return i.stockQuantity }

// AssignID records the identity generated by persistence. It is a no-op once set.
func (i *Item) AssignID(id int64) {
	if i.id == 0 {
		i.id = id
	}
}

// ChangeDetails renames and reprices the item.
func (i *Item) ChangeDetails(name string, price int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyItemName
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	i.name = name
	i.price = price
	return nil
}

// DecreaseStock removes amount from stock and returns the remaining quantity.
// Nothing changes when the amount cannot be covered.
func (i *Item) DecreaseStock(amount int) (int, error) {
	if amount <= 0 {
		return i.stockQuantity, ErrInvalidQuantity
	}
	if amount > i.stockQuantity {
		return i.stockQuantity, &InsufficientStockError{ItemID: i.id, Requested: amount, Available: i.stockQuantity}
	}
	i.stockQuantity -= amount
	return i.stockQuantity, nil
}

// IncreaseStock adds amount to stock and returns the new quantity.
func (i *Item) IncreaseStock(amount int) (int, error) {
	if amount <= 0 {
		return i.stockQuantity, ErrInvalidQuantity
	}
	i.stockQuantity += amount
	return i.stockQuantity, nil
}

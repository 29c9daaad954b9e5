package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewItem_Validates(t *testing.T) {
	_, err := NewItem(" ", 100, 1)
	require.ErrorIs(t, err, ErrEmptyItemName)

	_, err = NewItem("JPA book", -1, 1)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewItem("JPA book", 100, -1)
	require.ErrorIs(t, err, ErrNegativeStock)
}

func TestDecreaseStock(t *testing.T) {
	item, err := NewItem("JPA book", 10000, 10)
	require.NoError(t, err)

	left, err := item.DecreaseStock(2)
	require.NoError(t, err)
	require.Equal(t, 8, left)
	require.Equal(t, 8, item.StockQuantity())
}

func TestDecreaseStock_InsufficientLeavesStockUntouched(t *testing.T) {
	item := RestoreItem(7, "JPA book", 10000, 10)

	_, err := item.DecreaseStock(11)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, int64(7), stockErr.ItemID)
	require.Equal(t, 11, stockErr.Requested)
	require.Equal(t, 10, stockErr.Available)
	require.Equal(t, 10, item.StockQuantity())
}

func TestDecreaseStock_ExactlyAllStock(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 3)
	left, err := item.DecreaseStock(3)
	require.NoError(t, err)
	require.Zero(t, left)
}

func TestStockChanges_RejectNonPositiveAmounts(t *testing.T) {
	item := RestoreItem(1, "JPA book", 10000, 3)

	_, err := item.DecreaseStock(0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = item.IncreaseStock(-2)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Equal(t, 3, item.StockQuantity())

	total, err := item.IncreaseStock(5)
	require.NoError(t, err)
	require.Equal(t, 8, total)
}

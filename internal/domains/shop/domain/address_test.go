package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	addr, err := NewAddress(" Anyang ", "Anyangcheonseo-ro", "177")
	require.NoError(t, err)
	require.Equal(t, "Anyang Anyangcheonseo-ro 177", addr.FullAddress())

	same, err := NewAddress("Anyang", "Anyangcheonseo-ro", "177")
	require.NoError(t, err)
	require.True(t, addr == same)

	other, err := NewAddress("Anyang", "Anyangcheonseo-ro", "178")
	require.NoError(t, err)
	require.False(t, addr == other)

	_, err = NewAddress("", "street", "1")
	require.ErrorIs(t, err, ErrIncompleteAddress)
	require.True(t, Address{}.IsZero())
}

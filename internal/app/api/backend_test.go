package api

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	shopworkflows "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/workflows"
	platformobservability "github.com/Apurer/go-gin-shop/internal/platform/observability"
)

func TestNewBackend_MemoryFallbackIsNotPersistent(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	backend, err := NewBackend(context.Background(), Config{TxMaxAttempts: 3}, &platformobservability.Instruments{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	require.False(t, backend.Persistent)
	require.NotNil(t, backend.Service)
}

func TestBackend_NewCheckoutStaysInlineWithoutSharedStorage(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	backend, err := NewBackend(context.Background(), Config{TxMaxAttempts: 3}, &platformobservability.Instruments{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	dialed := false
	checkout, closeCheckout := backend.NewCheckout(func() (client.Client, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}, logger)
	defer closeCheckout()
	require.False(t, dialed)
	require.IsType(t, &shopworkflows.InlineCheckout{}, checkout)
}

func TestBackend_NewCheckoutFallsBackWhenTemporalIsUnreachable(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	backend, err := NewBackend(context.Background(), Config{TxMaxAttempts: 3}, &platformobservability.Instruments{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	backend.Persistent = true

	dialed := false
	checkout, closeCheckout := backend.NewCheckout(func() (client.Client, error) {
		dialed = true
		return nil, errors.New("connection refused")
	}, logger)
	defer closeCheckout()
	require.True(t, dialed)
	require.IsType(t, &shopworkflows.InlineCheckout{}, checkout)
}

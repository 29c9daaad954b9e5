//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-gin-shop/test/pact"

	shopserver "github.com/Apurer/go-gin-shop/go"
	shopmemory "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/memory"
	shopobs "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/observability"
	shopworkflows "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/workflows"
	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestShopProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	stateHandlers := models.StateHandlers{
		pacttest.StateShopBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.ItemStock)
			return nil, nil
		},
		pacttest.StateLowStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, 1)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.ItemStock)
			if setup {
				_, err := app.service.PlaceOrder(context.Background(), pacttest.MemberID, pacttest.ItemID, 2)
				require.NoError(t, err)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.ItemStock)
			return nil, nil
		},
	}

	err := pactprovider.NewVerifier().VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	store   *shopmemory.Store
	service shopports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	store := shopmemory.NewStore()
	service := shopobs.New(shopapp.NewService(store))

	router := gin.New()
	router.Use(gin.Recovery())
	router = shopserver.NewRouterWithGinEngine(router, shopserver.ApiHandleFunctions{
		MemberAPI: shopserver.NewMemberAPI(service),
		ItemAPI:   shopserver.NewItemAPI(service),
		OrderAPI:  shopserver.NewOrderAPI(service, shopworkflows.NewInlineCheckout(service)),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &contractProviderApp{store: store, service: service, server: server}
}

// reset leaves exactly member 1 and item 1 with the given stock.
func (a *contractProviderApp) reset(t testing.TB, stock int) {
	t.Helper()
	a.store.Reset()
	ctx := context.Background()
	_, err := a.service.JoinMember(ctx, shoptypes.JoinMemberInput{
		Name:    pacttest.MemberName,
		Address: shoptypes.AddressInput{City: "Seoul", Street: "Gangnam-daero 1", Zipcode: "06000"},
	})
	require.NoError(t, err)
	_, err = a.service.RegisterItem(ctx, shoptypes.RegisterItemInput{Name: pacttest.ItemName, Price: pacttest.ItemPrice, StockQuantity: stock})
	require.NoError(t, err)
}

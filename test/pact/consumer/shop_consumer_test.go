//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-shop/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type createdPayload struct {
	ID int64 `json:"id"`
}

type orderPayload struct {
	ID         int64  `json:"id"`
	MemberName string `json:"memberName"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"totalPrice"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	typ    string
	detail string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.typ, e.detail, e.status)
}

func TestShopPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateShopBaseline).
		UponReceiving("a request to order two units of an item").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest(2))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"id": matchers.Like(pacttest.ExistingOrder)})
		})

	pact.AddInteraction().
		Given(pacttest.StateLowStock).
		UponReceiving("a request to order more than the item holds").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest(2))
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-stock"),
				"title":  matchers.S("Insufficient Stock"),
				"status": matchers.Like(http.StatusConflict),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", fmt.Sprintf("/api/v1/orders/%d", pacttest.ExistingOrder)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":         matchers.Like(pacttest.ExistingOrder),
				"memberName": matchers.Like(pacttest.MemberName),
				"status":     matchers.Term("placed", "placed|cancelled"),
				"totalPrice": matchers.Like(2 * pacttest.ItemPrice),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/api/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newShopClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.PlaceOrder(ctx, 2)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if created.ID == 0 {
			return errors.New("expected order id to be set")
		}

		var apiErr apiError
		if _, err := client.PlaceOrder(ctx, 2); !errors.As(err, &apiErr) || apiErr.status != http.StatusConflict {
			return fmt.Errorf("expected 409 for low stock, got %v", err)
		}

		order, err := client.GetOrder(ctx, pacttest.ExistingOrder)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order.ID != pacttest.ExistingOrder {
			return fmt.Errorf("expected order %d, got %+v", pacttest.ExistingOrder, order)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for order %d, got %v", pacttest.MissingOrderID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type shopClient struct {
	baseURL    string
	httpClient *http.Client
}

func newShopClient(config pactconsumer.MockServerConfig) *shopClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &shopClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *shopClient) PlaceOrder(ctx context.Context, count int) (*createdPayload, error) {
	body, err := json.Marshal(pacttest.ExampleOrderRequest(count))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out createdPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *shopClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/orders/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	var out orderPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *shopClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return apiError{status: res.StatusCode, typ: problem.Type, detail: problem.Detail}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

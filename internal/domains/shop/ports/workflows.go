package ports

import (
	"context"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the shop bounded context.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error)
}

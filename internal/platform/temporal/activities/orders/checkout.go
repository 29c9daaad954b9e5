package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

const (
	// CheckoutActivityName places an order through the shop service.
	CheckoutActivityName = "orders.activities.Checkout"
)

// Application error types carried by non-retryable checkout failures.
const (
	ErrTypeNotFound            = "NotFound"
	ErrTypeInsufficientStock   = "InsufficientStock"
	ErrTypeInvalidOrderState   = "InvalidOrderState"
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
)

// Activities groups activities that operate on the shop bounded context.
type Activities struct {
	service shopports.Service
}

// NewActivities wires the shop service into the Temporal activities bundle.
func NewActivities(service shopports.Service) *Activities {
	return &Activities{service: service}
}

// Checkout places the order. Business rejections are returned as non-retryable
// application errors; anything else is left to the activity retry policy.
func (a *Activities) Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("checkout activity not initialized", "memberId", input.MemberID)
		return 0, errors.New("checkout activity not initialized")
	}
	logger.Info("Checkout activity started", "memberId", input.MemberID, "lines", len(input.Lines))
	orderID, err := a.service.Checkout(ctx, input)
	if err != nil {
		logger.Error("Checkout activity failed", "memberId", input.MemberID, "error", err)
		return 0, classify(err)
	}
	logger.Info("Checkout activity completed", "orderId", orderID)
	return orderID, nil
}

func classify(err error) error {
	var errType string
	switch {
	case errors.Is(err, shopports.ErrNotFound):
		errType = ErrTypeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		errType = ErrTypeInsufficientStock
	case errors.Is(err, domain.ErrInvalidOrderState):
		errType = ErrTypeInvalidOrderState
	case errors.Is(err, shopapp.ErrInvalidInput), errors.Is(err, shopapp.ErrDuplicateMember):
		errType = ErrTypeInvalidInput
	case errors.Is(err, shopports.ErrIdempotencyConflict):
		errType = ErrTypeIdempotencyConflict
	default:
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
}

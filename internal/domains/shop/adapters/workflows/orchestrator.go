package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
	orderactivities "github.com/Apurer/go-gin-shop/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-shop/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckout)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckout)(nil)
)

// TemporalCheckout starts checkout workflows on a Temporal cluster.
type TemporalCheckout struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCheckout wires a Temporal client into the orchestrator.
func NewTemporalCheckout(c client.Client) *TemporalCheckout {
	return &TemporalCheckout{client: c, taskQueue: orderworkflows.CheckoutTaskQueue}
}

// Checkout runs the checkout workflow and waits for the order id. A retried
// request with the same idempotency key attaches to the workflow already started.
func (o *TemporalCheckout) Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	if o == nil || o.client == nil {
		return 0, errors.New("temporal checkout not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCheckoutWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.CheckoutWorkflow,
		orderworkflows.CheckoutWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			var orderID int64
			if err := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId).Get(ctx, &orderID); err != nil {
				return 0, mapWorkflowError(err)
			}
			return orderID, nil
		}
		return 0, err
	}
	var orderID int64
	if err := run.Get(ctx, &orderID); err != nil {
		return 0, mapWorkflowError(err)
	}
	return orderID, nil
}

// InlineCheckout executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineCheckout struct {
	service ports.Service
}

// NewInlineCheckout wraps the shop service for synchronous execution.
func NewInlineCheckout(service ports.Service) *InlineCheckout {
	return &InlineCheckout{service: service}
}

// Checkout delegates to the application service without durable orchestration.
func (o *InlineCheckout) Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	if o == nil || o.service == nil {
		return 0, errors.New("inline checkout not configured")
	}
	return o.service.Checkout(ctx, input)
}

// mapWorkflowError restores the sentinel behind a business rejection so
// callers can match it the same way as an inline checkout.
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var sentinel error
	switch appErr.Type() {
	case orderactivities.ErrTypeNotFound:
		sentinel = ports.ErrNotFound
	case orderactivities.ErrTypeInsufficientStock:
		sentinel = domain.ErrInsufficientStock
	case orderactivities.ErrTypeInvalidOrderState:
		sentinel = domain.ErrInvalidOrderState
	case orderactivities.ErrTypeInvalidInput:
		sentinel = shopapp.ErrInvalidInput
	case orderactivities.ErrTypeIdempotencyConflict:
		sentinel = ports.ErrIdempotencyConflict
	default:
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, appErr.Error())
}

func buildCheckoutWorkflowID(input shoptypes.CheckoutInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("shop-checkout-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("shop-checkout-%d-%s", input.MemberID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceComponent := workflowTraceID(ctx); traceComponent != "" {
		return traceComponent
	}
	return "fallback-" + uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

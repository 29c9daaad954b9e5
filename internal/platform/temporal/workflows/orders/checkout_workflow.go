package orders

import (
	"go.temporal.io/sdk/workflow"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/platform/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the worker processing checkout workflows.
	CheckoutTaskQueue = "SHOP_CHECKOUT"
)

// CheckoutWorkflowInput captures the payload required to place an order.
type CheckoutWorkflowInput struct {
	Command shoptypes.CheckoutInput
	TraceID string
}

// CheckoutWorkflow places an order durably and returns its id.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (int64, error) {
	logger := workflow.GetLogger(ctx)
	memberID := input.Command.MemberID
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "memberId", memberID)...)
	orderID, err := sequences.RunCheckoutSequence(ctx, input.Command)
	if err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "memberId", memberID, "error", err)...)
		return 0, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return orderID, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

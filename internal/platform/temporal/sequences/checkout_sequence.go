package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	orderactivities "github.com/Apurer/go-gin-shop/internal/platform/temporal/activities/orders"
)

// RunCheckoutSequence executes the checkout activity. Inputs without an
// idempotency key are keyed by the workflow id so activity retries cannot
// place the order twice.
func RunCheckoutSequence(ctx workflow.Context, input shoptypes.CheckoutInput) (int64, error) {
	logger := workflow.GetLogger(ctx)
	if input.IdempotencyKey == "" {
		input.IdempotencyKey = "workflow:" + workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("checkout sequence started", "memberId", input.MemberID, "lines", len(input.Lines))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var orderID int64
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.CheckoutActivityName, input).Get(ctx, &orderID)
	if err != nil {
		logger.Error("checkout sequence failed", "memberId", input.MemberID, "error", err)
		return 0, err
	}
	logger.Info("checkout sequence placed order", "orderId", orderID)
	return orderID, nil
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-shop/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-shop/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-shop/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-shop/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "shop-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.ConfigFromEnv(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, err := api.NewBackend(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build shop backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()
	if !backend.Persistent {
		logger.Error("worker needs postgres: orders placed in an in-memory store are invisible to the API")
		os.Exit(1)
	}
	checkoutActivities := orderactivities.NewActivities(backend.Service)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(checkoutActivities.Checkout, activity.RegisterOptions{Name: orderactivities.CheckoutActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

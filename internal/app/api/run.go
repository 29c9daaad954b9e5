package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	shopserver "github.com/Apurer/go-gin-shop/go"
	shopworkflows "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/workflows"
	"github.com/Apurer/go-gin-shop/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-shop/internal/platform/observability"
)

// ServiceName identifies the API in traces, metrics, and logs.
const ServiceName = "shop-api"

// Run boots the shop HTTP API with observability, storage, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.ConfigFromEnv(ServiceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, err := NewBackend(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer backend.Close()

	checkout, closeCheckout := backend.NewCheckout(func() (client.Client, error) {
		return DialTemporal(cfg, instruments, "temporal-client")
	}, logger)
	defer closeCheckout()
	if _, ok := checkout.(*shopworkflows.TemporalCheckout); ok {
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	serverMetrics := metrics.NewServerMetrics(ServiceName)
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(ServiceName), serverMetrics.Middleware())
	router := shopserver.NewRouterWithGinEngine(engine, shopserver.ApiHandleFunctions{
		MemberAPI: shopserver.NewMemberAPI(backend.Service),
		ItemAPI:   shopserver.NewItemAPI(backend.Service),
		OrderAPI:  shopserver.NewOrderAPI(backend.Service, checkout),
		Metrics:   serverMetrics.Handler(),
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("shop API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down shop API")
		return srv.Shutdown(shutdownCtx)
	}
}

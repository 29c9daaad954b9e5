package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	shopkafka "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/messaging/kafka"
	shopmemory "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/memory"
	shopobs "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/observability"
	shoppostgres "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/persistence/postgres"
	shopworkflows "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/workflows"
	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
	platformkafka "github.com/Apurer/go-gin-shop/internal/platform/kafka"
	"github.com/Apurer/go-gin-shop/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-shop/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-shop/internal/platform/postgres"
)

// Backend is the shop service with its storage and event plumbing wired.
type Backend struct {
	Service shopports.Service
	// Persistent reports whether state lives in postgres rather than process memory.
	Persistent bool
	cleanup    []func()
}

// Close releases the database connection and the Kafka writer.
func (b *Backend) Close() {
	for i := len(b.cleanup) - 1; i >= 0; i-- {
		b.cleanup[i]()
	}
}

// NewBackend picks postgres or in-memory storage, Kafka or no-op publishing,
// and wraps the service with tracing and metrics.
func NewBackend(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Backend, error) {
	logger := instruments.Logger
	b := &Backend{}

	var uow shopports.UnitOfWork
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	b.cleanup = append(b.cleanup, closeDB)
	if db != nil {
		if cfg.AutoMigrate {
			if err := migrations.Run(db.WithContext(ctx)); err != nil {
				b.Close()
				return nil, fmt.Errorf("migrate shop schema: %w", err)
			}
		}
		uow = shoppostgres.NewUnitOfWork(db, shoppostgres.WithMaxAttempts(cfg.TxMaxAttempts), shoppostgres.WithLogger(logger))
		b.Persistent = true
		logger.Info("shop store configured with postgres")
	} else {
		uow = shopmemory.NewStore()
	}

	publisher := shopports.NoopEventPublisher
	writer, err := platformkafka.NewClient(cfg.KafkaBrokers).NewWriter(cfg.KafkaOrderTopic)
	switch {
	case errors.Is(err, platformkafka.ErrDisabled):
		logger.Info("KAFKA_BROKERS not set, order events are not published")
	case err != nil:
		b.Close()
		return nil, fmt.Errorf("configure kafka writer: %w", err)
	default:
		publisher = shopkafka.NewPublisher(writer)
		b.cleanup = append(b.cleanup, func() { _ = writer.Close() })
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderTopic))
	}

	core := shopapp.NewService(uow,
		shopapp.WithEventPublisher(publisher),
		shopapp.WithLogger(logger),
	)
	b.Service = shopobs.New(core,
		shopobs.WithLogger(logger),
		shopobs.WithTracer(instruments.Tracer("internal.shop.application")),
		shopobs.WithMeter(instruments.Meter("internal.shop.application")),
	)
	return b, nil
}

// NewCheckout picks how checkouts run. Temporal is used only for a persistent
// backend: workers with an in-memory store would place orders this process never sees.
// The returned func releases the Temporal client when one was dialed.
func (b *Backend) NewCheckout(dial func() (client.Client, error), logger *slog.Logger) (shopports.WorkflowOrchestrator, func()) {
	inline := shopworkflows.NewInlineCheckout(b.Service)
	if !b.Persistent {
		logger.Warn("in-memory store cannot be shared with Temporal workers, running checkout inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	return shopworkflows.NewTemporalCheckout(temporalClient), temporalClient.Close
}

// DialTemporal connects a traced Temporal client unless Temporal is disabled.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

const tracerName = "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/observability/service"

// Service decorates the shop application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, memberID, itemID int64, quantity int) (int64, error) {
	ctx, span := s.startSpan(ctx, "ShopService.PlaceOrder",
		attribute.Int64("member.id", memberID),
		attribute.Int64("item.id", itemID),
		attribute.Int("order.quantity", quantity),
	)
	defer span.End()

	orderID, err := s.inner.PlaceOrder(ctx, memberID, itemID, quantity)
	if err != nil {
		s.recordRejection(ctx, err)
		return 0, s.handleError(ctx, span, err, "failed to place order",
			slog.Int64("member.id", memberID), slog.Int64("item.id", itemID), slog.Int("quantity", quantity))
	}
	span.SetAttributes(attribute.Int64("order.id", orderID))
	s.metrics.recordPlaced(ctx, 1)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", orderID), slog.Int64("member.id", memberID), slog.Int64("item.id", itemID))
	return orderID, nil
}

// Checkout is instrumented separately from PlaceOrder so multi-line orders carry their line count.
func (s *Service) Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "ShopService.Checkout",
		attribute.Int64("member.id", input.MemberID),
		attribute.Int("order.lines", len(input.Lines)),
		attribute.Bool("idempotency.key_present", input.IdempotencyKey != ""),
	)
	defer span.End()

	orderID, err := s.inner.Checkout(ctx, input)
	if err != nil {
		s.recordRejection(ctx, err)
		return 0, s.handleError(ctx, span, err, "failed to check out",
			slog.Int64("member.id", input.MemberID), slog.Int("lines", len(input.Lines)))
	}
	span.SetAttributes(attribute.Int64("order.id", orderID))
	s.metrics.recordPlaced(ctx, 1)
	s.logInfo(ctx, "order checked out", slog.Int64("order.id", orderID), slog.Int64("member.id", input.MemberID), slog.Int("lines", len(input.Lines)))
	return orderID, nil
}

func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.startSpan(ctx, "ShopService.CancelOrder", attribute.Int64("order.id", orderID))
	defer span.End()

	if err := s.inner.CancelOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) ShipOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.startSpan(ctx, "ShopService.ShipOrder", attribute.Int64("order.id", orderID))
	defer span.End()

	if err := s.inner.ShipOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to ship order", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order shipped", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) CompleteDelivery(ctx context.Context, orderID int64) error {
	ctx, span := s.startSpan(ctx, "ShopService.CompleteDelivery", attribute.Int64("order.id", orderID))
	defer span.End()

	if err := s.inner.CompleteDelivery(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to complete delivery", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order delivered", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "ShopService.GetOrder", attribute.Int64("order.id", orderID))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.String("order.status", string(order.Status())))
	return order, nil
}

func (s *Service) SearchOrders(ctx context.Context, search ports.OrderSearch) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "ShopService.SearchOrders",
		attribute.String("order.search.status", string(search.Status)),
		attribute.Bool("order.search.member_name", search.MemberName != ""),
	)
	defer span.End()

	orders, err := s.inner.SearchOrders(ctx, search)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search orders", slog.String("status", string(search.Status)))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(orders)))
	s.logInfo(ctx, "searched orders", slog.Int("count", len(orders)))
	return orders, nil
}

func (s *Service) JoinMember(ctx context.Context, input shoptypes.JoinMemberInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "ShopService.JoinMember")
	defer span.End()

	memberID, err := s.inner.JoinMember(ctx, input)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to join member")
	}
	span.SetAttributes(attribute.Int64("member.id", memberID))
	s.logInfo(ctx, "member joined", slog.Int64("member.id", memberID))
	return memberID, nil
}

func (s *Service) GetMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	ctx, span := s.startSpan(ctx, "ShopService.GetMember", attribute.Int64("member.id", memberID))
	defer span.End()

	member, err := s.inner.GetMember(ctx, memberID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get member", slog.Int64("member.id", memberID))
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	ctx, span := s.startSpan(ctx, "ShopService.ListMembers")
	defer span.End()

	members, err := s.inner.ListMembers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list members")
	}
	span.SetAttributes(attribute.Int("member.result.count", len(members)))
	return members, nil
}

func (s *Service) RegisterItem(ctx context.Context, input shoptypes.RegisterItemInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "ShopService.RegisterItem", attribute.Int("item.stock", input.StockQuantity))
	defer span.End()

	itemID, err := s.inner.RegisterItem(ctx, input)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to register item", slog.String("name", input.Name))
	}
	span.SetAttributes(attribute.Int64("item.id", itemID))
	s.logInfo(ctx, "item registered", slog.Int64("item.id", itemID), slog.Int("stock", input.StockQuantity))
	return itemID, nil
}

func (s *Service) UpdateItem(ctx context.Context, input shoptypes.UpdateItemInput) error {
	ctx, span := s.startSpan(ctx, "ShopService.UpdateItem", attribute.Int64("item.id", input.ID))
	defer span.End()

	if err := s.inner.UpdateItem(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to update item", slog.Int64("item.id", input.ID))
	}
	s.logInfo(ctx, "item updated", slog.Int64("item.id", input.ID))
	return nil
}

func (s *Service) RestockItem(ctx context.Context, itemID int64, amount int) (int, error) {
	ctx, span := s.startSpan(ctx, "ShopService.RestockItem",
		attribute.Int64("item.id", itemID),
		attribute.Int("item.restock_amount", amount),
	)
	defer span.End()

	stock, err := s.inner.RestockItem(ctx, itemID, amount)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to restock item", slog.Int64("item.id", itemID), slog.Int("amount", amount))
	}
	s.logInfo(ctx, "item restocked", slog.Int64("item.id", itemID), slog.Int("stock", stock))
	return stock, nil
}

func (s *Service) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	ctx, span := s.startSpan(ctx, "ShopService.GetItem", attribute.Int64("item.id", itemID))
	defer span.End()

	item, err := s.inner.GetItem(ctx, itemID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get item", slog.Int64("item.id", itemID))
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	ctx, span := s.startSpan(ctx, "ShopService.ListItems")
	defer span.End()

	items, err := s.inner.ListItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list items")
	}
	span.SetAttributes(attribute.Int("item.result.count", len(items)))
	return items, nil
}

func (s *Service) recordRejection(ctx context.Context, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		s.metrics.recordStockRejection(ctx, stockErr.ItemID)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	stockRejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("shop.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersCancelled, _ := m.Int64Counter("shop.service.orders_cancelled", metric.WithDescription("Number of orders cancelled"))
	stockRejections, _ := m.Int64Counter("shop.service.stock_rejections", metric.WithDescription("Number of orders rejected for insufficient stock"))
	return serviceMetrics{
		ordersPlaced:    ordersPlaced,
		ordersCancelled: ordersCancelled,
		stockRejections: stockRejections,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, n int64) {
	addCounter(ctx, m.ordersPlaced, n)
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func (m serviceMetrics) recordStockRejection(ctx context.Context, itemID int64) {
	addCounter(ctx, m.stockRejections, 1, attribute.Int64("item.id", itemID))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)

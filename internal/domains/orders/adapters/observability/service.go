package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
	return s
}

func (s *Service) Checkout(ctx context.Context, input types.CheckoutInput) (*types.CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Checkout")
	defer span.End()

	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout failed")
	}
	if result.Order == nil {
		s.logInfo(ctx, "checkout skipped, cart is empty")
		return result, nil
	}
	order := result.Order
	span.SetAttributes(orderAttrs(order)...)
	if result.Replayed {
		span.SetAttributes(attribute.Bool("order.replayed", true))
		s.logInfo(ctx, "checkout replayed", slog.String("order.id", order.ID))
		return result, nil
	}
	s.metrics.recordPlaced(ctx, order)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", order.ID),
		slog.String("order.status", string(order.Status)),
		slog.String("order.total", order.TotalAmount.StringFixed(2)),
		slog.Int("order.lines", len(order.Lines)),
	)
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(append(actorAttrs(input.Actor), attribute.String("order.status_filter", input.Status))...))
	defer span.End()

	orders, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, input types.GetOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder",
		trace.WithAttributes(append(actorAttrs(input.Actor), attribute.String("order.id", input.OrderID))...))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	return order, nil
}

func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Transition",
		trace.WithAttributes(append(actorAttrs(input.Actor),
			attribute.String("order.id", input.OrderID),
			attribute.String("order.target_status", input.Status))...))
	defer span.End()

	order, err := s.inner.Transition(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order transition refused",
			slog.String("order.id", input.OrderID), slog.String("order.target_status", input.Status))
	}
	s.metrics.recordTransition(ctx, order.Status)
	s.logInfo(ctx, "order transitioned", slog.String("order.id", order.ID), slog.String("order.status", string(order.Status)))
	return order, nil
}

func (s *Service) AuthorizeDispatch(ctx context.Context, input types.GetOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.AuthorizeDispatch",
		trace.WithAttributes(append(actorAttrs(input.Actor), attribute.String("order.id", input.OrderID))...))
	defer span.End()

	order, err := s.inner.AuthorizeDispatch(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "dispatch refused", slog.String("order.id", input.OrderID))
	}
	return order, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func orderAttrs(order *domain.Order) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
		attribute.Bool("order.requires_prescription", order.RequiresPrescription()),
	}
}

func actorAttrs(actor *identity.Actor) []attribute.KeyValue {
	if actor == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String("actor.id", actor.ID),
		attribute.String("actor.role", string(actor.Role)),
	}
}

type serviceMetrics struct {
	ordersPlaced metric.Int64Counter
	transitions  metric.Int64Counter
	salesAmount  metric.Float64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed at checkout"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of accepted order status transitions"))
	sales, _ := m.Float64Counter("orders.service.sales_amount", metric.WithDescription("Order value placed at checkout"), metric.WithUnit("USD"))
	return serviceMetrics{ordersPlaced: placed, transitions: transitions, salesAmount: sales}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *domain.Order) {
	status := metric.WithAttributes(attribute.String("order.status", string(order.Status)))
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, status)
	}
	if m.salesAmount != nil {
		m.salesAmount.Add(ctx, order.TotalAmount.InexactFloat64(), status)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, to domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(to))))
	}
}

var _ orderports.Service = (*Service)(nil)

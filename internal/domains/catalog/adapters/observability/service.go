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

	"github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
)

const tracerName = "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateItem", trace.WithAttributes(actorAttrs(input.Actor)...))
	defer span.End()

	s.logInfo(ctx, "creating catalog item", slog.String("actor.id", actorID(input.Actor)))
	result, err := s.inner.CreateItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create catalog item")
	}
	s.metrics.recordChanged(ctx, "create")
	span.SetAttributes(attribute.String("item.id", result.Entity.ID))
	s.logInfo(ctx, "catalog item created", slog.String("item.id", result.Entity.ID))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateItem",
		trace.WithAttributes(append(actorAttrs(input.Actor), attribute.String("item.id", input.ID))...))
	defer span.End()

	s.logInfo(ctx, "updating catalog item", slog.String("item.id", input.ID))
	result, err := s.inner.UpdateItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update catalog item", slog.String("item.id", input.ID))
	}
	s.metrics.recordChanged(ctx, "update")
	s.logInfo(ctx, "catalog item updated", slog.String("item.id", input.ID), slog.Int("item.stock", result.Entity.Stock))
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, input types.DeleteItemInput) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteItem",
		trace.WithAttributes(append(actorAttrs(input.Actor), attribute.String("item.id", input.ID))...))
	defer span.End()

	s.logInfo(ctx, "deleting catalog item", slog.String("item.id", input.ID))
	if err := s.inner.DeleteItem(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete catalog item", slog.String("item.id", input.ID))
	}
	s.metrics.recordChanged(ctx, "delete")
	s.logInfo(ctx, "catalog item deleted", slog.String("item.id", input.ID))
	return nil
}

func (s *Service) GetItem(ctx context.Context, input types.ItemIdentifier) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetItem", trace.WithAttributes(attribute.String("item.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load catalog item", slog.String("item.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListItems(ctx context.Context, input types.ListItemsInput) ([]*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListItems",
		trace.WithAttributes(attribute.String("catalog.query", input.Query), attribute.String("catalog.category", input.Category)))
	defer span.End()

	result, err := s.inner.ListItems(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list catalog items")
	}
	span.SetAttributes(attribute.Int("catalog.items.count", len(result)))
	return result, nil
}

func (s *Service) LowStockCount(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LowStockCount")
	defer span.End()

	count, err := s.inner.LowStockCount(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count low stock items")
	}
	span.SetAttributes(attribute.Int("catalog.low_stock.count", count))
	return count, nil
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

func actorAttrs(actor *identity.Actor) []attribute.KeyValue {
	if actor == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String("actor.id", actor.ID),
		attribute.String("actor.role", string(actor.Role)),
	}
}

func actorID(actor *identity.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

type serviceMetrics struct {
	itemsChanged metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsChanged, _ := m.Int64Counter("catalog.service.items_changed", metric.WithDescription("Number of catalog item mutations"))
	return serviceMetrics{itemsChanged: itemsChanged}
}

func (m serviceMetrics) recordChanged(ctx context.Context, op string) {
	if m.itemsChanged != nil {
		m.itemsChanged.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.operation", op)))
	}
}

var _ catalogports.Service = (*Service)(nil)

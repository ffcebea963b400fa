package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	"github.com/Apurer/mediswift-api/internal/domains/reporting/ports"
)

const tracerName = "github.com/Apurer/mediswift-api/internal/domains/reporting/adapters/observability/service"

// Service traces dashboard reads.
type Service struct {
	inner  ports.Service
	tracer trace.Tracer
	logger *slog.Logger
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

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) Summary(ctx context.Context, actor *identity.Actor) (*ports.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "ReportingService.Summary")
	defer span.End()

	summary, err := s.inner.Summary(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build dashboard")
	}
	span.SetAttributes(
		attribute.Int("orders.count", summary.OrderCount),
		attribute.Int("orders.pending", summary.PendingCount),
		attribute.Int("catalog.low_stock.count", summary.LowStockCount),
	)
	return summary, nil
}

func (s *Service) StalePending(ctx context.Context, cutoff time.Time) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "ReportingService.StalePending",
		trace.WithAttributes(attribute.String("orders.cutoff", cutoff.UTC().Format(time.RFC3339))))
	defer span.End()

	stale, err := s.inner.StalePending(ctx, cutoff)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list stale pending orders")
	}
	span.SetAttributes(attribute.Int("orders.stale.count", len(stale)))
	return stale, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, slog.String("error", err.Error()))
	return err
}

var _ ports.Service = (*Service)(nil)

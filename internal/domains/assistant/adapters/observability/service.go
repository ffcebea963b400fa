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

	"github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	"github.com/Apurer/mediswift-api/internal/domains/assistant/ports"
)

const tracerName = "github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/observability/service"

// Service decorates the assistant service with tracing, logging, and metrics. Question text is
// never logged.
type Service struct {
	inner   ports.Service
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

func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) Ask(ctx context.Context, input ports.AskInput) (*ports.AskResult, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.Ask",
		trace.WithAttributes(attribute.Int("assistant.question.length", len(input.Text))))
	defer span.End()

	result, err := s.inner.Ask(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to answer question")
	}
	if result.Ignored {
		span.SetAttributes(attribute.Bool("assistant.ignored", true))
		return result, nil
	}
	fallback := result.Reply != nil &&
		(result.Reply.Text == domain.FallbackReply || result.Reply.Text == domain.EmptyReply)
	span.SetAttributes(attribute.Bool("assistant.fallback", fallback))
	s.metrics.recordQuestion(ctx, fallback)
	if fallback {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "assistant answered with fallback reply")
	}
	return result, nil
}

func (s *Service) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.Transcript")
	defer span.End()

	messages, err := s.inner.Transcript(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load transcript")
	}
	span.SetAttributes(attribute.Int("assistant.transcript.length", len(messages)))
	return messages, nil
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

type serviceMetrics struct {
	questions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	questions, _ := m.Int64Counter("assistant.service.questions", metric.WithDescription("Number of answered assistant questions"))
	return serviceMetrics{questions: questions}
}

func (m serviceMetrics) recordQuestion(ctx context.Context, fallback bool) {
	if m.questions != nil {
		m.questions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("assistant.fallback", fallback)))
	}
}

var _ ports.Service = (*Service)(nil)

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

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

const tracerName = "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/observability/service"

// Service decorates the session service. Tokens and emails are kept out of logs and spans.
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

func (s *Service) Start(ctx context.Context) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Start")
	defer span.End()

	session, err := s.inner.Start(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to start session")
	}
	s.metrics.record(ctx, s.metrics.started)
	return session, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Get")
	defer span.End()

	session, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load session")
	}
	return session, nil
}

func (s *Service) SignIn(ctx context.Context, input ports.SignInInput) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.SignIn", trace.WithAttributes(attribute.String("actor.role", input.Role)))
	defer span.End()

	session, err := s.inner.SignIn(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sign in")
	}
	span.SetAttributes(attribute.String("actor.id", session.Actor.ID))
	s.metrics.record(ctx, s.metrics.signIns, attribute.String("actor.role", string(session.Actor.Role)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "actor signed in",
		slog.String("actor.id", session.Actor.ID), slog.String("actor.role", string(session.Actor.Role)))
	return session, nil
}

func (s *Service) SignOut(ctx context.Context, id string) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.SignOut")
	defer span.End()

	session, err := s.inner.SignOut(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sign out")
	}
	return session, nil
}

func (s *Service) CurrentActor(ctx context.Context, id string) (*identity.Actor, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.CurrentActor")
	defer span.End()

	actor, err := s.inner.CurrentActor(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve actor")
	}
	span.SetAttributes(attribute.Bool("actor.authenticated", actor != nil))
	return actor, nil
}

func (s *Service) End(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "SessionService.End")
	defer span.End()

	if err := s.inner.End(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to end session")
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if errors.Is(err, ports.ErrNotFound) {
		level = slog.LevelWarn
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	started metric.Int64Counter
	signIns metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	started, _ := m.Int64Counter("sessions.service.started", metric.WithDescription("Number of sessions started"))
	signIns, _ := m.Int64Counter("sessions.service.sign_ins", metric.WithDescription("Number of identities claimed"))
	return serviceMetrics{started: started, signIns: signIns}
}

func (m serviceMetrics) record(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

var _ ports.Service = (*Service)(nil)

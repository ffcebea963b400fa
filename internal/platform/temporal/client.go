package temporal

import (
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal was switched off.
var ErrDisabled = errors.New("temporal disabled")

// Options select the Temporal frontend to dial.
type Options struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects a Temporal client that traces through tracer and logs through logger.
func Dial(opts Options, tracer trace.Tracer, logger *slog.Logger) (client.Client, error) {
	if opts.Disabled {
		return nil, ErrDisabled
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	clientOptions := client.Options{
		HostPort:  orDefault(opts.Address, client.DefaultHostPort),
		Namespace: orDefault(opts.Namespace, client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	return client.Dial(clientOptions)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

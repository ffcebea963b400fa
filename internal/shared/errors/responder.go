package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// internalDetail replaces the message of unmapped errors so storage and provider details stay private.
const internalDetail = "the request could not be completed"

// Responder writes Problem Details documents.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	logger  *slog.Logger
}

// ResponderOption customises a responder.
type ResponderOption func(*Responder)

// WithLogger sets the logger used for server-side failures.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResponder(baseURI string, opts ...ResponderOption) *Responder {
	r := &Responder{BaseURI: baseURI, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond sends problem with the problem+json content type. The instance defaults to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError sends err as is when it already is a ProblemDetail, otherwise logs it and answers 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.logger.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
		slog.String("http.method", c.Request.Method),
		slog.String("http.path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal.WithDetail(internalDetail))
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder tries each mapper in order before the default handling.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

func NewChainedResponder(base *Responder, mappers ...ErrorMapper) *ChainedResponder {
	if base == nil {
		base = NewResponder("")
	}
	return &ChainedResponder{Responder: base, mappers: mappers}
}

func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

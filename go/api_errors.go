package pharmacyserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	sessionsapp "github.com/Apurer/mediswift-api/internal/domains/sessions/application"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
	apierrors "github.com/Apurer/mediswift-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder(nil,
	mapIdentityError,
	mapNotFoundError,
	mapLifecycleError,
	mapForbiddenError,
	mapInvalidInputError,
)

// respondProblem sends a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError converts a service error into a problem document.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapIdentityError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, identity.ErrUnauthenticated) {
		return apierrors.NewUnauthenticatedProblem(string(ordertypes.RouteSignIn)), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, sessionports.ErrNotFound):
		return apierrors.NewNotFoundProblem("session", err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.NewNotFoundProblem("item", err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.NewNotFoundProblem("order", err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapLifecycleError(err error) (apierrors.ProblemDetail, bool) {
	var illegal *orderdomain.IllegalTransitionError
	switch {
	case errors.As(err, &illegal):
		return apierrors.NewIllegalTransitionProblem(string(illegal.From), string(illegal.To)), true
	case errors.Is(err, orderports.ErrStatusConflict),
		errors.Is(err, orderports.ErrIdempotencyConflict),
		errors.Is(err, ordersapp.ErrNotDispatchable):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapForbiddenError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrForbidden) ||
		errors.Is(err, ordersapp.ErrForbidden) ||
		errors.Is(err, reportingapp.ErrForbidden) {
		return apierrors.NewForbiddenProblem(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInputError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) ||
		errors.Is(err, ordersapp.ErrInvalidInput) ||
		errors.Is(err, sessionsapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

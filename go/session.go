package pharmacyserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

const (
	// SessionHeader carries the token returned by POST /v1/sessions.
	SessionHeader = "X-Session-Token"
	// IdempotencyKeyHeader lets clients retry POST /v1/checkout without placing a second order.
	IdempotencyKeyHeader = "Idempotency-Key"
)

var errMissingSession = errors.New(SessionHeader + " header is required")

// requireSession reads the session token or answers 400.
func requireSession(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.GetHeader(SessionHeader))
	if token == "" {
		respondBadRequest(c, errMissingSession)
		return "", false
	}
	return token, true
}

// resolveActor returns the signed-in actor of the request. Requests without a token, or from an
// anonymous session, resolve to nil so the use case decides whether that is allowed.
func resolveActor(c *gin.Context, sessions sessionports.Service) (*identity.Actor, bool) {
	token := strings.TrimSpace(c.GetHeader(SessionHeader))
	if token == "" {
		return nil, true
	}
	actor, err := sessions.CurrentActor(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return actor, true
}

func viewerRole(actor *identity.Actor) identity.Role {
	if actor == nil {
		return ""
	}
	return actor.Role
}

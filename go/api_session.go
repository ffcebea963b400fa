package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionmapper "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/http/mapper"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

// SessionAPI wires HTTP transport with session and identity use cases.
type SessionAPI struct {
	service sessionports.Service
}

func NewSessionAPI(service sessionports.Service) SessionAPI {
	return SessionAPI{service: service}
}

// Post /v1/sessions
// Starts an anonymous session with an empty cart
func (api *SessionAPI) StartSession(c *gin.Context) {
	session, err := api.service.Start(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionmapper.FromCreated(session))
}

// Get /v1/sessions/current
func (api *SessionAPI) GetSession(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	session, err := api.service.Get(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionmapper.FromDomain(session))
}

// Post /v1/sessions/current/sign-in
// Claims an identity for the session
func (api *SessionAPI) SignIn(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	var payload sessionmapper.SignInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.SignIn(c.Request.Context(), sessionports.SignInInput{
		SessionID: token,
		Name:      payload.Name,
		Email:     payload.Email,
		Role:      payload.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionmapper.FromDomain(session))
}

// Post /v1/sessions/current/sign-out
// Drops the identity, the cart stays
func (api *SessionAPI) SignOut(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	session, err := api.service.SignOut(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionmapper.FromDomain(session))
}

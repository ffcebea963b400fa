package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	assistantmapper "github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/http/mapper"
	assistantports "github.com/Apurer/mediswift-api/internal/domains/assistant/ports"
)

// AssistantAPI wires HTTP transport with the medical assistant chat.
type AssistantAPI struct {
	service assistantports.Service
}

func NewAssistantAPI(service assistantports.Service) AssistantAPI {
	return AssistantAPI{service: service}
}

// Post /v1/assistant/messages
// Asks a question; blank questions are ignored with 204
func (api *AssistantAPI) Ask(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	var payload assistantmapper.AskRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.Ask(c.Request.Context(), assistantports.AskInput{SessionID: token, Text: payload.Text})
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Ignored || result.Reply == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, assistantmapper.FromDomain(*result.Reply))
}

// Get /v1/assistant/messages
// Returns the whole transcript in order
func (api *AssistantAPI) Transcript(c *gin.Context) {
	token, ok := requireSession(c)
	if !ok {
		return
	}
	messages, err := api.service.Transcript(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assistantmapper.FromTranscript(messages))
}

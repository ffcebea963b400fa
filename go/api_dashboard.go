package pharmacyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reportingmapper "github.com/Apurer/mediswift-api/internal/domains/reporting/adapters/http/mapper"
	reportingports "github.com/Apurer/mediswift-api/internal/domains/reporting/ports"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

// DashboardAPI serves the operator summary.
type DashboardAPI struct {
	service  reportingports.Service
	sessions sessionports.Service
}

func NewDashboardAPI(service reportingports.Service, sessions sessionports.Service) DashboardAPI {
	return DashboardAPI{service: service, sessions: sessions}
}

// Get /v1/dashboard
func (api *DashboardAPI) GetDashboard(c *gin.Context) {
	actor, ok := resolveActor(c, api.sessions)
	if !ok {
		return
	}
	summary, err := api.service.Summary(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportingmapper.FromSummary(summary, viewerRole(actor)))
}

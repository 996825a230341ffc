// README: Route-scenario handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/routing"
	"ridecost/internal/types"
)

type RoutesHandler struct {
	routing *routing.Service
	apiKey  string
}

func NewRoutesHandler(svc *routing.Service, apiKey string) *RoutesHandler {
	return &RoutesHandler{routing: svc, apiKey: apiKey}
}

type scenariosRequest struct {
	Origin      *types.Point       `json:"origin"`
	Destination *types.Point       `json:"destination"`
	TCO         *routing.TCOConfig `json:"tco,omitempty"`
}

// Scenarios always answers 200: routing failures are reported inside the
// calculation as a fallback. A partial tco object overrides only the fields
// it names.
func (h *RoutesHandler) Scenarios(c *gin.Context) {
	defaults := routing.DefaultTCOConfig()
	req := scenariosRequest{TCO: &defaults}
	if !bindJSON(c, &req) {
		return
	}
	if !validPoints(req.Origin, req.Destination) {
		writeError(c, http.StatusBadRequest, "origin and destination must be valid coordinates")
		return
	}
	cfg := routing.DefaultTCOConfig()
	if req.TCO != nil {
		cfg = *req.TCO
	}
	calc := h.routing.CalculateRouteScenarios(c.Request.Context(), *req.Origin, *req.Destination, h.apiKey, cfg)
	writeJSON(c, http.StatusOK, calc)
}

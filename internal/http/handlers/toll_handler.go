// README: Toll lookup and cache maintenance handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/toll"
	"ridecost/internal/types"
)

type TollHandler struct {
	tolls  *toll.Service
	apiKey string
}

func NewTollHandler(svc *toll.Service, apiKey string) *TollHandler {
	return &TollHandler{tolls: svc, apiKey: apiKey}
}

type tollLookupRequest struct {
	Origin      *types.Point `json:"origin"`
	Destination *types.Point `json:"destination"`

	// DistanceKm enables the flat-rate fallback when the API cannot answer.
	DistanceKm        float64  `json:"distance_km"`
	FallbackRatePerKm *float64 `json:"fallback_rate_per_km,omitempty"`
}

func (h *TollHandler) Lookup(c *gin.Context) {
	var req tollLookupRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPoints(req.Origin, req.Destination) {
		writeError(c, http.StatusBadRequest, "origin and destination must be valid coordinates")
		return
	}
	cfg := toll.Config{APIKey: h.apiKey, FallbackRatePerKm: toll.DefaultFallbackRatePerKm}
	if req.FallbackRatePerKm != nil {
		cfg.FallbackRatePerKm = *req.FallbackRatePerKm
	}

	ctx := c.Request.Context()
	var res toll.Result
	if req.DistanceKm > 0 {
		res = h.tolls.ResolveToll(ctx, *req.Origin, *req.Destination, req.DistanceKm, cfg)
	} else {
		res = h.tolls.GetTollCost(ctx, *req.Origin, *req.Destination, cfg)
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *TollHandler) Cleanup(c *gin.Context) {
	deleted, err := h.tolls.CleanupExpired(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": deleted})
}

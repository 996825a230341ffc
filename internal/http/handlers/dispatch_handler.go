// README: Dispatch handlers: driver positions, flexibility scores and ranking.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/matching"
	"ridecost/internal/types"
)

type DispatchHandler struct {
	matching *matching.Service
	radiusKm float64
}

func NewDispatchHandler(svc *matching.Service, defaultRadiusKm float64) *DispatchHandler {
	return &DispatchHandler{matching: svc, radiusKm: defaultRadiusKm}
}

type scoreRequest struct {
	Input  matching.Input   `json:"input"`
	Limits *matching.Limits `json:"limits,omitempty"`
}

func (h *DispatchHandler) Score(c *gin.Context) {
	defaults := h.matching.Limits()
	req := scoreRequest{Limits: &defaults}
	if !bindJSON(c, &req) {
		return
	}
	limits := h.matching.Limits()
	if req.Limits != nil {
		limits = *req.Limits
	}
	writeJSON(c, http.StatusOK, matching.CalculateFlexibilityScore(req.Input, limits))
}

func (h *DispatchHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	var body struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Lat == nil || body.Lng == nil {
		writeError(c, http.StatusBadRequest, "invalid position")
		return
	}
	p := types.Point{Lat: *body.Lat, Lng: *body.Lng}
	if !p.Valid() {
		writeError(c, http.StatusBadRequest, "invalid position")
		return
	}
	if err := h.matching.UpdatePosition(c.Request.Context(), types.ID(id), p); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *DispatchHandler) RemoveDriver(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	if err := h.matching.RemoveDriver(c.Request.Context(), types.ID(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type rankRequest struct {
	Pickup   *types.Point       `json:"pickup"`
	RadiusKm float64            `json:"radius_km"`
	Drivers  []matching.Profile `json:"drivers"`
}

// Rank uses the configured dispatch radius when the request leaves it out.
func (h *DispatchHandler) Rank(c *gin.Context) {
	var req rankRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPoints(req.Pickup) {
		writeError(c, http.StatusBadRequest, "pickup must be a valid coordinate")
		return
	}
	radius := req.RadiusKm
	if radius == 0 {
		radius = h.radiusKm
	}
	candidates, err := h.matching.RankCandidates(c.Request.Context(), *req.Pickup, radius, req.Drivers)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"candidates": candidates})
}

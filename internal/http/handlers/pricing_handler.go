// README: Pricing handlers: quote calculation and snapshot retrieval.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/pricing"
	"ridecost/internal/types"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

type quoteRequest struct {
	OrganizationID    string       `json:"organization_id"`
	QuoteID           string       `json:"quote_id,omitempty"`
	Pickup            *types.Point `json:"pickup"`
	Dropoff           *types.Point `json:"dropoff"`
	VehicleCategoryID string       `json:"vehicle_category_id"`
}

func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPoints(req.Pickup, req.Dropoff) {
		writeError(c, http.StatusBadRequest, "pickup and dropoff must be valid coordinates")
		return
	}
	res, err := h.pricing.Quote(c.Request.Context(), pricing.Request{
		OrganizationID:    req.OrganizationID,
		QuoteID:           req.QuoteID,
		Pickup:            *req.Pickup,
		Dropoff:           *req.Dropoff,
		VehicleCategoryID: req.VehicleCategoryID,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Analysis returns the latest snapshot stored for a quote, as saved.
func (h *PricingHandler) Analysis(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid quote id")
		return
	}
	raw, err := h.pricing.LatestAnalysis(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

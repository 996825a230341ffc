// README: Multi-day mission handlers: stay-versus-return and crew planning.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/multiday"
)

type MultiDayHandler struct {
	settings multiday.Settings
	rules    multiday.Rules
}

// NewMultiDayHandler takes the operator defaults. Settings or rules in a
// request are decoded over a copy of them, so omitted fields keep the
// default value.
func NewMultiDayHandler(settings multiday.Settings, rules multiday.Rules) *MultiDayHandler {
	return &MultiDayHandler{settings: settings, rules: rules}
}

type compareRequest struct {
	Mission  multiday.Mission   `json:"mission"`
	Settings *multiday.Settings `json:"settings,omitempty"`

	// When set and the mission carries no loss of exploitation, it is
	// derived from the idle days.
	DailyReferenceRevenue float64 `json:"daily_reference_revenue"`
	Seasonality           float64 `json:"seasonality"`
}

func (h *MultiDayHandler) Compare(c *gin.Context) {
	defaults := h.settings
	req := compareRequest{Settings: &defaults}
	if !bindJSON(c, &req) {
		return
	}
	if req.Mission.TotalDays < 0 || req.Mission.IdleDays < 0 || req.Mission.DistanceOneWayKm < 0 {
		writeError(c, http.StatusBadRequest, "mission values must not be negative")
		return
	}
	settings := h.settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	m := req.Mission
	if m.LossOfExploitation == 0 {
		m.LossOfExploitation = multiday.CalculateLossOfExploitation(m.IdleDays, req.DailyReferenceRevenue, req.Seasonality)
	}
	writeJSON(c, http.StatusOK, multiday.CompareStayVsReturn(m, settings))
}

type staffingRequest struct {
	Trip  multiday.Trip   `json:"trip"`
	Rules *multiday.Rules `json:"rules,omitempty"`
}

func (h *MultiDayHandler) Staffing(c *gin.Context) {
	defaults := h.rules
	req := staffingRequest{Rules: &defaults}
	if !bindJSON(c, &req) {
		return
	}
	if req.Trip.DrivingHours < 0 || req.Trip.AmplitudeHours < 0 {
		writeError(c, http.StatusBadRequest, "trip hours must not be negative")
		return
	}
	rules := h.rules
	if req.Rules != nil {
		rules = *req.Rules
	}
	writeJSON(c, http.StatusOK, multiday.PlanStaffing(req.Trip, rules))
}

// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridecost/internal/modules/matching"
	"ridecost/internal/modules/pricing"
	"ridecost/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// bindJSON decodes the body into v and answers 400 itself on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// validPoints rejects nil points so an omitted coordinate is not read as (0,0).
func validPoints(points ...*types.Point) bool {
	for _, p := range points {
		if p == nil || !p.Valid() {
			return false
		}
	}
	return true
}

// isValidID accepts the ids operators use for drivers and quotes: short
// alphanumerics with dashes or underscores.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidRequest), errors.Is(err, matching.ErrInvalidRadius):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrAnalysisNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

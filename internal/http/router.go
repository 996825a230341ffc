// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ridecost/internal/http/handlers"
	"ridecost/internal/http/middleware"
	"ridecost/internal/modules/matching"
	"ridecost/internal/modules/multiday"
	"ridecost/internal/modules/pricing"
	"ridecost/internal/modules/routing"
	"ridecost/internal/modules/toll"
)

type RouterDeps struct {
	Pricing  *pricing.Service
	Routing  *routing.Service
	Tolls    *toll.Service
	Matching *matching.Service

	MultiDaySettings multiday.Settings
	StaffingRules    multiday.Rules

	RoutesAPIKey     string
	DispatchRadiusKm float64
	Logger           *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	r.POST("/api/pricing/quote", pricingHandler.Quote)
	r.GET("/api/pricing/quotes/:id/analysis", pricingHandler.Analysis)

	routesHandler := handlers.NewRoutesHandler(deps.Routing, deps.RoutesAPIKey)
	r.POST("/api/routes/scenarios", routesHandler.Scenarios)

	tollHandler := handlers.NewTollHandler(deps.Tolls, deps.RoutesAPIKey)
	r.POST("/api/tolls/lookup", tollHandler.Lookup)
	r.POST("/api/tolls/cleanup", tollHandler.Cleanup)

	multiDayHandler := handlers.NewMultiDayHandler(deps.MultiDaySettings, deps.StaffingRules)
	r.POST("/api/multiday/compare", multiDayHandler.Compare)
	r.POST("/api/multiday/staffing", multiDayHandler.Staffing)

	dispatchHandler := handlers.NewDispatchHandler(deps.Matching, deps.DispatchRadiusKm)
	r.POST("/api/dispatch/score", dispatchHandler.Score)
	r.PUT("/api/dispatch/drivers/:id/position", dispatchHandler.UpdatePosition)
	r.DELETE("/api/dispatch/drivers/:id", dispatchHandler.RemoveDriver)
	r.POST("/api/dispatch/rank", dispatchHandler.Rank)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

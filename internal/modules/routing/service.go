// README: Route-scenario optimizer: fastest and shortest routes fetched in
// parallel, costed, and compared on total cost of ownership.
package routing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ridecost/internal/maps"
	"ridecost/internal/modules/toll"
	"ridecost/internal/types"
)

// RouteComputer is satisfied by *maps.RoutesClient.
type RouteComputer interface {
	ComputeRoute(ctx context.Context, apiKey string, req maps.RouteRequest) (*maps.Route, error)
}

type Service struct {
	routes RouteComputer
	now    func() time.Time
	log    *zap.Logger
}

func NewService(routes RouteComputer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{routes: routes, now: time.Now, log: logger}
}

type fetchResult struct {
	route *maps.Route
	err   error
}

// CalculateRouteScenarios never returns an error: missing key or API
// failures produce a result with FallbackUsed set.
func (s *Service) CalculateRouteScenarios(ctx context.Context, origin, destination types.Point, apiKey string, cfg TCOConfig) Calculation {
	calc := Calculation{CalculatedAt: s.now()}
	if apiKey == "" || s.routes == nil {
		calc.FallbackUsed = true
		calc.FallbackReason = ReasonNoAPIKey
		calc.Scenarios = []Scenario{}
		return calc
	}

	var fastest, shortest fetchResult
	// Each goroutine records its own error so one failure never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		fastest.route, fastest.err = s.routes.ComputeRoute(ctx, apiKey, maps.RouteRequest{
			Origin:       origin,
			Destination:  destination,
			Preference:   maps.PreferenceTrafficAwareOptimal,
			TrafficModel: maps.TrafficModelPessimistic,
		})
		return nil
	})
	g.Go(func() error {
		shortest.route, shortest.err = s.routes.ComputeRoute(ctx, apiKey, maps.RouteRequest{
			Origin:      origin,
			Destination: destination,
			Preference:  maps.PreferenceTrafficUnaware,
		})
		return nil
	})
	_ = g.Wait()

	var failures []string
	scenarios := make([]Scenario, 0, len(scenarioOrder))
	if fastest.err != nil {
		failures = append(failures, fmt.Sprintf("%s: %v", ScenarioMinTime, fastest.err))
	} else {
		scenarios = append(scenarios, buildScenario(ScenarioMinTime, fastest.route, cfg))
	}
	if shortest.err != nil {
		failures = append(failures, fmt.Sprintf("%s: %v", ScenarioMinDistance, shortest.err))
	} else {
		scenarios = append(scenarios, buildScenario(ScenarioMinDistance, shortest.route, cfg))
	}

	if len(failures) > 0 {
		calc.FallbackUsed = true
		calc.FallbackReason = strings.Join(failures, "; ")
		s.log.Warn("route scenario fetch degraded",
			zap.Int("failed", len(failures)), zap.String("reason", calc.FallbackReason))
	}
	if len(scenarios) == 0 {
		calc.Scenarios = []Scenario{}
		return calc
	}

	if len(scenarios) == 2 {
		cheapest := scenarios[0]
		if scenarios[1].TCO < cheapest.TCO {
			cheapest = scenarios[1]
		}
		cheapest.Type = ScenarioMinTCO
		scenarios = append(scenarios, cheapest)
	}

	calc.Scenarios = scenarios
	calc.Recommended, calc.SelectionReason = recommend(calc.Scenarios)
	return calc
}

func buildScenario(t ScenarioType, route *maps.Route, cfg TCOConfig) Scenario {
	distanceKm := route.DistanceKm()
	durationMin := route.DurationMinutes()

	sc := Scenario{
		Type:            t,
		DurationMinutes: durationMin,
		DistanceKm:      distanceKm,
		TollCost:        toll.ParseTollAmount(route),
		DriverCost:      types.Round2(durationMin / 60 * cfg.DriverHourlyCost),
		FuelCost:        types.Round2(distanceKm / 100 * cfg.FuelConsumptionL100km * cfg.FuelPricePerLiter),
		WearCost:        types.Round2(distanceKm * cfg.WearCostPerKm),
		EncodedPolyline: route.EncodedPolyline,
	}
	sc.TCO = types.Round2(sc.DriverCost + sc.FuelCost + sc.TollCost + sc.WearCost)
	return sc
}

// recommend marks exactly one scenario, the cheapest by TCO. Scenarios are
// already in tie-break order so the first minimum wins.
func recommend(scenarios []Scenario) (ScenarioType, string) {
	best, worst := 0, 0
	for i := range scenarios {
		scenarios[i].IsRecommended = false
		if scenarios[i].TCO < scenarios[best].TCO {
			best = i
		}
		if scenarios[i].TCO > scenarios[worst].TCO {
			worst = i
		}
	}
	scenarios[best].IsRecommended = true

	rec := scenarios[best]
	if len(scenarios) == 1 {
		return rec.Type, fmt.Sprintf("%s is the only available route (%.2f €)", rec.Type, rec.TCO)
	}
	savings := types.Round2(scenarios[worst].TCO - rec.TCO)
	if savings <= 0 {
		return rec.Type, fmt.Sprintf("%s selected: all scenarios cost %.2f €", rec.Type, rec.TCO)
	}
	pct := savings / scenarios[worst].TCO * 100
	return rec.Type, fmt.Sprintf("%s selected: saves %.2f € (%.1f%%) versus %s",
		rec.Type, savings, pct, scenarios[worst].Type)
}

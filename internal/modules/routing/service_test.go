package routing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecost/internal/maps"
	"ridecost/internal/types"
)

type fakeRoutes struct {
	mu       sync.Mutex
	routes   map[maps.RoutingPreference]*maps.Route
	errs     map[maps.RoutingPreference]error
	requests []maps.RouteRequest
}

func (f *fakeRoutes) ComputeRoute(_ context.Context, _ string, req maps.RouteRequest) (*maps.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := f.errs[req.Preference]; err != nil {
		return nil, err
	}
	return f.routes[req.Preference], nil
}

var (
	paris = types.Point{Lat: 48.8566, Lng: 2.3522}
	cdg   = types.Point{Lat: 49.0097, Lng: 2.5479}
)

func fastRoute() *maps.Route {
	return &maps.Route{
		DistanceMeters:  60000,
		DurationSeconds: 45 * 60,
		EncodedPolyline: "fast",
		TollInfo: &maps.TollInfo{EstimatedPrice: []maps.Money{
			{CurrencyCode: "EUR", Units: "5", Nanos: 300000000},
		}},
	}
}

func shortRoute() *maps.Route {
	return &maps.Route{DistanceMeters: 50000, DurationSeconds: 60 * 60, EncodedPolyline: "short"}
}

func recommendedCount(c Calculation) int {
	n := 0
	for _, s := range c.Scenarios {
		if s.IsRecommended {
			n++
		}
	}
	return n
}

func TestCalculateRouteScenarios_NoAPIKey(t *testing.T) {
	routes := &fakeRoutes{}
	svc := NewService(routes, nil)

	calc := svc.CalculateRouteScenarios(context.Background(), paris, cdg, "", DefaultTCOConfig())

	assert.True(t, calc.FallbackUsed)
	assert.Equal(t, ReasonNoAPIKey, calc.FallbackReason)
	assert.Empty(t, calc.Scenarios)
	assert.Empty(t, routes.requests)
}

func TestCalculateRouteScenarios_BothSucceed(t *testing.T) {
	routes := &fakeRoutes{routes: map[maps.RoutingPreference]*maps.Route{
		maps.PreferenceTrafficAwareOptimal: fastRoute(),
		maps.PreferenceTrafficUnaware:      shortRoute(),
	}}
	svc := NewService(routes, nil)

	calc := svc.CalculateRouteScenarios(context.Background(), paris, cdg, "key", DefaultTCOConfig())

	require.False(t, calc.FallbackUsed)
	require.Len(t, calc.Scenarios, 3)
	require.Len(t, routes.requests, 2)
	for _, req := range routes.requests {
		if req.Preference == maps.PreferenceTrafficAwareOptimal {
			assert.Equal(t, maps.TrafficModelPessimistic, req.TrafficModel)
		} else {
			assert.Empty(t, req.TrafficModel)
		}
	}

	fast, ok := calc.Scenario(ScenarioMinTime)
	require.True(t, ok)
	assert.Equal(t, 22.5, fast.DriverCost)
	assert.Equal(t, 8.1, fast.FuelCost)
	assert.Equal(t, 6.0, fast.WearCost)
	assert.Equal(t, 5.3, fast.TollCost)
	assert.Equal(t, 41.9, fast.TCO)

	short, ok := calc.Scenario(ScenarioMinDistance)
	require.True(t, ok)
	assert.Equal(t, 30.0, short.DriverCost)
	assert.Equal(t, 6.75, short.FuelCost)
	assert.Equal(t, 5.0, short.WearCost)
	assert.Equal(t, 0.0, short.TollCost)
	assert.Equal(t, 41.75, short.TCO)

	tco, ok := calc.Scenario(ScenarioMinTCO)
	require.True(t, ok)
	assert.Equal(t, short.TCO, tco.TCO)
	assert.Equal(t, "short", tco.EncodedPolyline)

	assert.Equal(t, ScenarioMinDistance, calc.Recommended)
	assert.Equal(t, 1, recommendedCount(calc))
	assert.True(t, short.IsRecommended)
	assert.Contains(t, calc.SelectionReason, "0.15 €")
	assert.Contains(t, calc.SelectionReason, "0.4%")
	assert.Contains(t, calc.SelectionReason, string(ScenarioMinTime))
}

func TestCalculateRouteScenarios_TiePrefersMinTime(t *testing.T) {
	same := &maps.Route{DistanceMeters: 10000, DurationSeconds: 900}
	routes := &fakeRoutes{routes: map[maps.RoutingPreference]*maps.Route{
		maps.PreferenceTrafficAwareOptimal: same,
		maps.PreferenceTrafficUnaware:      &maps.Route{DistanceMeters: 10000, DurationSeconds: 900, EncodedPolyline: "other"},
	}}
	svc := NewService(routes, nil)

	calc := svc.CalculateRouteScenarios(context.Background(), paris, cdg, "key", DefaultTCOConfig())

	assert.Equal(t, ScenarioMinTime, calc.Recommended)
	assert.Equal(t, 1, recommendedCount(calc))
	tco, ok := calc.Scenario(ScenarioMinTCO)
	require.True(t, ok)
	assert.Empty(t, tco.EncodedPolyline, "MIN_TCO copies MIN_TIME on a tie")
	assert.Contains(t, calc.SelectionReason, "all scenarios cost")
}

func TestCalculateRouteScenarios_PartialFailure(t *testing.T) {
	routes := &fakeRoutes{
		routes: map[maps.RoutingPreference]*maps.Route{maps.PreferenceTrafficAwareOptimal: fastRoute()},
		errs:   map[maps.RoutingPreference]error{maps.PreferenceTrafficUnaware: errors.New("quota exceeded")},
	}
	svc := NewService(routes, nil)

	calc := svc.CalculateRouteScenarios(context.Background(), paris, cdg, "key", DefaultTCOConfig())

	assert.True(t, calc.FallbackUsed)
	assert.Contains(t, calc.FallbackReason, "MIN_DISTANCE")
	require.Len(t, calc.Scenarios, 1)
	assert.Equal(t, ScenarioMinTime, calc.Scenarios[0].Type)
	assert.True(t, calc.Scenarios[0].IsRecommended)
	_, ok := calc.Scenario(ScenarioMinTCO)
	assert.False(t, ok)
}

func TestCalculateRouteScenarios_BothFail(t *testing.T) {
	routes := &fakeRoutes{errs: map[maps.RoutingPreference]error{
		maps.PreferenceTrafficAwareOptimal: errors.New("timeout"),
		maps.PreferenceTrafficUnaware:      maps.ErrNoRoute,
	}}
	svc := NewService(routes, nil)

	calc := svc.CalculateRouteScenarios(context.Background(), paris, cdg, "key", DefaultTCOConfig())

	assert.True(t, calc.FallbackUsed)
	assert.Empty(t, calc.Scenarios)
	assert.Equal(t, "MIN_TIME: timeout; MIN_DISTANCE: "+maps.ErrNoRoute.Error(), calc.FallbackReason)
	_, ok := calc.RecommendedScenario()
	assert.False(t, ok)
}

func TestRecommend_ExactlyOneWithMinimumTCO(t *testing.T) {
	tests := []struct {
		name string
		tcos []float64
		want int
	}{
		{name: "single", tcos: []float64{12}, want: 0},
		{name: "second cheaper", tcos: []float64{40, 30, 30}, want: 1},
		{name: "all equal", tcos: []float64{10, 10, 10}, want: 0},
		{name: "first cheaper", tcos: []float64{9.99, 10, 9.99}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenarios := make([]Scenario, len(tt.tcos))
			for i, v := range tt.tcos {
				scenarios[i] = Scenario{Type: scenarioOrder[i], TCO: v, IsRecommended: true}
			}
			got, reason := recommend(scenarios)

			assert.Equal(t, scenarioOrder[tt.want], got)
			assert.NotEmpty(t, reason)
			n := 0
			for i, s := range scenarios {
				if s.IsRecommended {
					n++
					assert.Equal(t, tt.want, i)
				}
				assert.LessOrEqual(t, scenarios[tt.want].TCO, s.TCO)
			}
			assert.Equal(t, 1, n)
		})
	}
}

// README: Route scenarios, their total cost of ownership and the calculation envelope.
package routing

import "time"

type ScenarioType string

const (
	ScenarioMinTime     ScenarioType = "MIN_TIME"
	ScenarioMinDistance ScenarioType = "MIN_DISTANCE"
	ScenarioMinTCO      ScenarioType = "MIN_TCO"
)

// scenarioOrder is the tie-break order for the recommendation.
var scenarioOrder = []ScenarioType{ScenarioMinTime, ScenarioMinDistance, ScenarioMinTCO}

const ReasonNoAPIKey = "No API key provided"

// TCOConfig holds the operator cost inputs applied to every scenario.
type TCOConfig struct {
	DriverHourlyCost      float64 `json:"driver_hourly_cost"`
	FuelConsumptionL100km float64 `json:"fuel_consumption_l100km"`
	FuelPricePerLiter     float64 `json:"fuel_price_per_liter"`
	WearCostPerKm         float64 `json:"wear_cost_per_km"`
}

// DefaultTCOConfig returns figures typical of a diesel executive sedan in France.
func DefaultTCOConfig() TCOConfig {
	return TCOConfig{
		DriverHourlyCost:      30,
		FuelConsumptionL100km: 7.5,
		FuelPricePerLiter:     1.80,
		WearCostPerKm:         0.10,
	}
}

type Scenario struct {
	Type            ScenarioType `json:"type"`
	DurationMinutes float64      `json:"duration_minutes"`
	DistanceKm      float64      `json:"distance_km"`
	TollCost        float64      `json:"toll_cost"`
	FuelCost        float64      `json:"fuel_cost"`
	DriverCost      float64      `json:"driver_cost"`
	WearCost        float64      `json:"wear_cost"`
	TCO             float64      `json:"tco"`
	EncodedPolyline string       `json:"encoded_polyline,omitempty"`
	IsRecommended   bool         `json:"is_recommended"`
}

type Calculation struct {
	Scenarios       []Scenario   `json:"scenarios"`
	Recommended     ScenarioType `json:"recommended,omitempty"`
	SelectionReason string       `json:"selection_reason,omitempty"`
	FallbackUsed    bool         `json:"fallback_used"`
	FallbackReason  string       `json:"fallback_reason,omitempty"`
	CalculatedAt    time.Time    `json:"calculated_at"`
}

// Scenario returns the scenario of the given type, if present.
func (c *Calculation) Scenario(t ScenarioType) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Type == t {
			return s, true
		}
	}
	return Scenario{}, false
}

// RecommendedScenario returns the recommended scenario, if any.
func (c *Calculation) RecommendedScenario() (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.IsRecommended {
			return s, true
		}
	}
	return Scenario{}, false
}

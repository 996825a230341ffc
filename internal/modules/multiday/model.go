// README: Multi-day mission inputs, operator cost settings and comparison results.
package multiday

import (
	"encoding/json"
	"math"
)

type Scenario string

const (
	ScenarioStayOnSite  Scenario = "STAY_ON_SITE"
	ScenarioReturnEmpty Scenario = "RETURN_EMPTY"
)

// Mission describes a trip whose vehicle would otherwise sit idle at the destination.
type Mission struct {
	TotalDays             int     `json:"total_days"`
	IdleDays              int     `json:"idle_days"`
	DistanceOneWayKm      float64 `json:"distance_one_way_km"`
	DurationOneWayMinutes float64 `json:"duration_one_way_minutes"`
	TollPerTrip           float64 `json:"toll_per_trip"`
	// LossOfExploitation is the revenue forgone while the vehicle stays away.
	LossOfExploitation float64 `json:"loss_of_exploitation"`
}

type Settings struct {
	HotelCostPerNight      float64 `json:"hotel_cost_per_night"`
	MealCostPerDay         float64 `json:"meal_cost_per_day"`
	DriverOvernightPremium float64 `json:"driver_overnight_premium"`
	MaxReturnDistanceKm    float64 `json:"max_return_distance_km"`
	FuelRatePerKm          float64 `json:"fuel_rate_per_km"`
	DriverHourlyRate       float64 `json:"driver_hourly_rate"`
}

func DefaultSettings() Settings {
	return Settings{
		HotelCostPerNight:      110,
		MealCostPerDay:         35,
		DriverOvernightPremium: 50,
		MaxReturnDistanceKm:    300,
		FuelRatePerKm:          0.15,
		DriverHourlyRate:       30,
	}
}

type StayScenario struct {
	Nights             int     `json:"nights"`
	HotelCost          float64 `json:"hotel_cost"`
	MealCost           float64 `json:"meal_cost"`
	DriverPremium      float64 `json:"driver_premium"`
	LossOfExploitation float64 `json:"loss_of_exploitation"`
	TotalCost          float64 `json:"total_cost"`
}

// ReturnScenario reports TotalCost as +Inf when the return is not viable.
type ReturnScenario struct {
	IsViable   bool    `json:"is_viable"`
	Reason     string  `json:"reason,omitempty"`
	TripsCount int     `json:"trips_count"`
	FuelCost   float64 `json:"fuel_cost"`
	TollCost   float64 `json:"toll_cost"`
	DriverCost float64 `json:"driver_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// MarshalJSON writes a non-finite TotalCost as null.
func (r ReturnScenario) MarshalJSON() ([]byte, error) {
	type plain ReturnScenario
	out := struct {
		plain
		TotalCost *float64 `json:"total_cost"`
	}{plain: plain(r)}
	if !math.IsInf(r.TotalCost, 0) && !math.IsNaN(r.TotalCost) {
		out.TotalCost = &r.TotalCost
	}
	return json.Marshal(out)
}

type StayVsReturnComparison struct {
	IsApplicable   bool            `json:"is_applicable"`
	Stay           *StayScenario   `json:"stay_on_site"`
	Return         *ReturnScenario `json:"return_empty"`
	Recommended    Scenario        `json:"recommended_scenario,omitempty"`
	CostDifference float64         `json:"cost_difference"`
	Reason         string          `json:"reason,omitempty"`
}

// README: Stay-on-site versus return-empty comparison for multi-day missions.
package multiday

import (
	"fmt"
	"math"

	"ridecost/internal/types"
)

// CompareStayVsReturn applies only to missions of at least two days with at
// least one idle day. Ties and non-viable returns recommend staying.
func CompareStayVsReturn(m Mission, s Settings) StayVsReturnComparison {
	if m.TotalDays < 2 || m.IdleDays < 1 {
		return StayVsReturnComparison{
			Reason: "mission must span at least 2 days with at least 1 idle day",
		}
	}

	stay := stayOnSite(m, s)
	ret := returnEmpty(m, s)
	cmp := StayVsReturnComparison{IsApplicable: true, Stay: &stay, Return: &ret}

	switch {
	case !ret.IsViable:
		cmp.Recommended = ScenarioStayOnSite
		cmp.Reason = ret.Reason
	case ret.TotalCost < stay.TotalCost:
		cmp.Recommended = ScenarioReturnEmpty
		cmp.CostDifference = types.Round2(stay.TotalCost - ret.TotalCost)
		cmp.Reason = fmt.Sprintf("returning empty saves %.2f €", cmp.CostDifference)
	default:
		cmp.Recommended = ScenarioStayOnSite
		cmp.CostDifference = types.Round2(ret.TotalCost - stay.TotalCost)
		cmp.Reason = fmt.Sprintf("staying on site saves %.2f €", cmp.CostDifference)
	}
	return cmp
}

func stayOnSite(m Mission, s Settings) StayScenario {
	nights := m.TotalDays - 1
	st := StayScenario{
		Nights:             nights,
		HotelCost:          types.Round2(float64(nights) * s.HotelCostPerNight),
		MealCost:           types.Round2(float64(m.TotalDays) * s.MealCostPerDay),
		DriverPremium:      types.Round2(float64(nights) * s.DriverOvernightPremium),
		LossOfExploitation: types.Round2(m.LossOfExploitation),
	}
	st.TotalCost = types.Round2(st.HotelCost + st.MealCost + st.DriverPremium + st.LossOfExploitation)
	return st
}

// returnEmpty costs two empty legs per idle day.
func returnEmpty(m Mission, s Settings) ReturnScenario {
	trips := 2 * m.IdleDays
	if m.DistanceOneWayKm > s.MaxReturnDistanceKm {
		return ReturnScenario{
			TripsCount: trips,
			TotalCost:  math.Inf(1),
			Reason: fmt.Sprintf("one-way distance %.0f km exceeds the %.0f km return limit",
				m.DistanceOneWayKm, s.MaxReturnDistanceKm),
		}
	}
	n := float64(trips)
	r := ReturnScenario{
		IsViable:   true,
		TripsCount: trips,
		FuelCost:   types.Round2(n * m.DistanceOneWayKm * s.FuelRatePerKm),
		TollCost:   types.Round2(n * m.TollPerTrip),
		DriverCost: types.Round2(n * m.DurationOneWayMinutes / 60 * s.DriverHourlyRate),
	}
	r.TotalCost = types.Round2(r.FuelCost + r.TollCost + r.DriverCost)
	return r
}

// CalculateLossOfExploitation is idle days × daily reference revenue ×
// seasonality. A non-positive seasonality coefficient counts as 1.
func CalculateLossOfExploitation(idleDays int, dailyReferenceRevenue, seasonality float64) float64 {
	if idleDays <= 0 || dailyReferenceRevenue <= 0 {
		return 0
	}
	if seasonality <= 0 {
		seasonality = 1
	}
	return types.Round2(float64(idleDays) * dailyReferenceRevenue * seasonality)
}

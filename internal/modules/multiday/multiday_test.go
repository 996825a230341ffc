package multiday

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorSettings() Settings {
	return Settings{
		HotelCostPerNight:      120,
		MealCostPerDay:         35,
		DriverOvernightPremium: 45,
		MaxReturnDistanceKm:    300,
		FuelRatePerKm:          0.4,
		DriverHourlyRate:       100,
	}
}

func weekendMission() Mission {
	return Mission{
		TotalDays:             3,
		IdleDays:              1,
		DistanceOneWayKm:      250,
		DurationOneWayMinutes: 150,
		TollPerTrip:           40,
		LossOfExploitation:    300,
	}
}

func TestCompareStayVsReturn_StayWins(t *testing.T) {
	cmp := CompareStayVsReturn(weekendMission(), operatorSettings())

	require.True(t, cmp.IsApplicable)
	require.NotNil(t, cmp.Stay)
	require.NotNil(t, cmp.Return)
	assert.Equal(t, 2, cmp.Stay.Nights)
	assert.Equal(t, 735.0, cmp.Stay.TotalCost)
	assert.Equal(t, 2, cmp.Return.TripsCount)
	assert.Equal(t, 200.0, cmp.Return.FuelCost)
	assert.Equal(t, 80.0, cmp.Return.TollCost)
	assert.Equal(t, 500.0, cmp.Return.DriverCost)
	assert.Equal(t, 780.0, cmp.Return.TotalCost)
	assert.Equal(t, ScenarioStayOnSite, cmp.Recommended)
	assert.Equal(t, 45.0, cmp.CostDifference)
}

func TestCompareStayVsReturn_ReturnWins(t *testing.T) {
	m := weekendMission()
	m.LossOfExploitation = 500
	cmp := CompareStayVsReturn(m, operatorSettings())

	assert.Equal(t, ScenarioReturnEmpty, cmp.Recommended)
	assert.Equal(t, 155.0, cmp.CostDifference)
}

func TestCompareStayVsReturn_TiePrefersStay(t *testing.T) {
	m := weekendMission()
	m.LossOfExploitation = 345
	cmp := CompareStayVsReturn(m, operatorSettings())

	assert.Equal(t, cmp.Stay.TotalCost, cmp.Return.TotalCost)
	assert.Equal(t, ScenarioStayOnSite, cmp.Recommended)
	assert.Zero(t, cmp.CostDifference)
}

func TestCompareStayVsReturn_ReturnNotViable(t *testing.T) {
	m := weekendMission()
	m.DistanceOneWayKm = 450
	m.LossOfExploitation = 5000
	cmp := CompareStayVsReturn(m, operatorSettings())

	require.NotNil(t, cmp.Return)
	assert.False(t, cmp.Return.IsViable)
	assert.True(t, math.IsInf(cmp.Return.TotalCost, 1))
	assert.NotEmpty(t, cmp.Return.Reason)
	assert.Equal(t, ScenarioStayOnSite, cmp.Recommended)
	assert.Zero(t, cmp.CostDifference)

	raw, err := json.Marshal(cmp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_cost":null`)
}

func TestCompareStayVsReturn_NotApplicable(t *testing.T) {
	tests := []struct {
		name      string
		totalDays int
		idleDays  int
	}{
		{name: "single day", totalDays: 1, idleDays: 1},
		{name: "no idle day", totalDays: 4, idleDays: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := weekendMission()
			m.TotalDays, m.IdleDays = tt.totalDays, tt.idleDays
			cmp := CompareStayVsReturn(m, operatorSettings())
			assert.False(t, cmp.IsApplicable)
			assert.Nil(t, cmp.Stay)
			assert.Nil(t, cmp.Return)
			assert.Empty(t, cmp.Recommended)
		})
	}
}

func TestCompareStayVsReturn_TwoTripsPerIdleDay(t *testing.T) {
	m := weekendMission()
	m.TotalDays, m.IdleDays = 5, 3
	cmp := CompareStayVsReturn(m, operatorSettings())
	assert.Equal(t, 6, cmp.Return.TripsCount)
	assert.Equal(t, 4, cmp.Stay.Nights)
}

func TestCalculateLossOfExploitation(t *testing.T) {
	assert.Equal(t, 540.0, CalculateLossOfExploitation(2, 300, 0.9))
	assert.Equal(t, 600.0, CalculateLossOfExploitation(2, 300, 0))
	assert.Zero(t, CalculateLossOfExploitation(0, 300, 1.2))
	assert.Zero(t, CalculateLossOfExploitation(2, -5, 1.2))
}

func TestPlanStaffing(t *testing.T) {
	rules := DefaultRules()
	rules.SecondDriverHourlyCost = 25
	rules.HotelCostPerNight = 100
	rules.DriverOvernightPremium = 50
	rules.MealCostPerDay = 30

	tests := []struct {
		name      string
		trip      Trip
		want      StaffingMode
		wantCost  float64
		violation bool
	}{
		{name: "fits one driver", trip: Trip{DrivingHours: 8, AmplitudeHours: 12}, want: StaffingSingleDriver},
		{name: "limits are inclusive", trip: Trip{DrivingHours: 10, AmplitudeHours: 13}, want: StaffingSingleDriver},
		// double crew 14h × 25 = 350, two days = 150 + 60 = 210
		{name: "multi day cheaper", trip: Trip{DrivingHours: 11, AmplitudeHours: 14}, want: StaffingMultiDay, wantCost: 210, violation: true},
		// amplitude 20h is beyond the double crew ceiling
		{name: "double crew not compliant", trip: Trip{DrivingHours: 12, AmplitudeHours: 20}, want: StaffingMultiDay, wantCost: 210, violation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := PlanStaffing(tt.trip, rules)
			assert.Equal(t, tt.want, d.Recommended)
			assert.Equal(t, tt.wantCost, d.ExtraCost)
			assert.Equal(t, tt.violation, len(d.Violations) > 0)
		})
	}

	cheapCrew := rules
	cheapCrew.SecondDriverHourlyCost = 10
	d := PlanStaffing(Trip{DrivingHours: 11, AmplitudeHours: 14}, cheapCrew)
	assert.Equal(t, StaffingDoubleCrew, d.Recommended)
	assert.Equal(t, 140.0, d.ExtraCost)
	require.Len(t, d.Options, 2)
	assert.Equal(t, 2, d.Options[1].Days)
}

func TestPlanStaffing_ZeroRulesUseDefaults(t *testing.T) {
	d := PlanStaffing(Trip{DrivingHours: 9, AmplitudeHours: 12}, Rules{})
	assert.Equal(t, StaffingSingleDriver, d.Recommended)

	d = PlanStaffing(Trip{DrivingHours: 25, AmplitudeHours: 30}, Rules{})
	assert.Equal(t, StaffingMultiDay, d.Recommended)
	assert.Equal(t, 3, d.Options[1].Days)
}

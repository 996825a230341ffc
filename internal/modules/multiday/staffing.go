// README: Staffing plans that keep long missions within driving-time rules.
package multiday

import (
	"fmt"
	"math"

	"ridecost/internal/types"
)

type StaffingMode string

const (
	StaffingSingleDriver StaffingMode = "SINGLE_DRIVER"
	StaffingDoubleCrew   StaffingMode = "DOUBLE_CREW"
	StaffingMultiDay     StaffingMode = "MULTI_DAY"
)

// Trip is the service day a single driver would have to cover.
type Trip struct {
	DrivingHours   float64 `json:"driving_hours"`
	AmplitudeHours float64 `json:"amplitude_hours"`
}

// Rules are the daily limits and the costs of each way of meeting them.
type Rules struct {
	MaxDrivingHours          float64 `json:"max_driving_hours"`
	MaxAmplitudeHours        float64 `json:"max_amplitude_hours"`
	DoubleCrewAmplitudeHours float64 `json:"double_crew_amplitude_hours"`
	SecondDriverHourlyCost   float64 `json:"second_driver_hourly_cost"`
	HotelCostPerNight        float64 `json:"hotel_cost_per_night"`
	MealCostPerDay           float64 `json:"meal_cost_per_day"`
	DriverOvernightPremium   float64 `json:"driver_overnight_premium"`
}

func DefaultRules() Rules {
	s := DefaultSettings()
	return Rules{
		MaxDrivingHours:          10,
		MaxAmplitudeHours:        13,
		DoubleCrewAmplitudeHours: 18,
		SecondDriverHourlyCost:   30,
		HotelCostPerNight:        s.HotelCostPerNight,
		MealCostPerDay:           s.MealCostPerDay,
		DriverOvernightPremium:   s.DriverOvernightPremium,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.MaxDrivingHours <= 0 {
		r.MaxDrivingHours = d.MaxDrivingHours
	}
	if r.MaxAmplitudeHours <= 0 {
		r.MaxAmplitudeHours = d.MaxAmplitudeHours
	}
	if r.DoubleCrewAmplitudeHours <= 0 {
		r.DoubleCrewAmplitudeHours = d.DoubleCrewAmplitudeHours
	}
	return r
}

type StaffingPlan struct {
	Mode      StaffingMode `json:"mode"`
	Compliant bool         `json:"compliant"`
	Drivers   int          `json:"drivers"`
	Days      int          `json:"days"`
	ExtraCost float64      `json:"extra_cost"`
	Reason    string       `json:"reason,omitempty"`
}

type StaffingDecision struct {
	Recommended StaffingMode   `json:"recommended"`
	Violations  []string       `json:"violations,omitempty"`
	Options     []StaffingPlan `json:"options"`
	ExtraCost   float64        `json:"extra_cost"`
}

// PlanStaffing keeps a single driver when the day fits the limits, otherwise
// picks the cheaper compliant of a double crew or splitting over several
// days. A tie goes to the double crew, which finishes the same day.
func PlanStaffing(t Trip, rules Rules) StaffingDecision {
	r := rules.withDefaults()

	var violations []string
	if t.DrivingHours > r.MaxDrivingHours {
		violations = append(violations, fmt.Sprintf("driving %.1fh exceeds %.1fh", t.DrivingHours, r.MaxDrivingHours))
	}
	if t.AmplitudeHours > r.MaxAmplitudeHours {
		violations = append(violations, fmt.Sprintf("amplitude %.1fh exceeds %.1fh", t.AmplitudeHours, r.MaxAmplitudeHours))
	}
	if len(violations) == 0 {
		plan := StaffingPlan{Mode: StaffingSingleDriver, Compliant: true, Drivers: 1, Days: 1}
		return StaffingDecision{Recommended: StaffingSingleDriver, Options: []StaffingPlan{plan}}
	}

	double := doubleCrew(t, r)
	multi := multiDay(t, r)
	d := StaffingDecision{Violations: violations, Options: []StaffingPlan{double, multi}}

	if double.Compliant && double.ExtraCost <= multi.ExtraCost {
		d.Recommended, d.ExtraCost = double.Mode, double.ExtraCost
	} else {
		d.Recommended, d.ExtraCost = multi.Mode, multi.ExtraCost
	}
	return d
}

func doubleCrew(t Trip, r Rules) StaffingPlan {
	p := StaffingPlan{
		Mode:      StaffingDoubleCrew,
		Drivers:   2,
		Days:      1,
		ExtraCost: types.Round2(t.AmplitudeHours * r.SecondDriverHourlyCost),
		Compliant: t.AmplitudeHours <= r.DoubleCrewAmplitudeHours && t.DrivingHours <= 2*r.MaxDrivingHours,
	}
	if !p.Compliant {
		p.Reason = fmt.Sprintf("double crew limited to %.1fh amplitude and %.1fh driving",
			r.DoubleCrewAmplitudeHours, 2*r.MaxDrivingHours)
	}
	return p
}

// multiDay splits the work into as many days as the tighter limit needs.
func multiDay(t Trip, r Rules) StaffingPlan {
	days := int(math.Max(
		math.Ceil(t.DrivingHours/r.MaxDrivingHours),
		math.Ceil(t.AmplitudeHours/r.MaxAmplitudeHours),
	))
	if days < 1 {
		days = 1
	}
	nights := float64(days - 1)
	cost := nights*(r.HotelCostPerNight+r.DriverOvernightPremium) + float64(days)*r.MealCostPerDay
	return StaffingPlan{
		Mode:      StaffingMultiDay,
		Compliant: true,
		Drivers:   1,
		Days:      days,
		ExtraCost: types.Round2(cost),
	}
}

// README: Flexibility scoring inputs, limits and ranked dispatch candidates.
package matching

import "ridecost/internal/types"

// componentWeight is the share of each of the four score components.
const componentWeight = 25.0

// Limits are the values at which a component reaches its full weight.
type Limits struct {
	MaxLicenseCount      float64 `json:"max_license_count"`
	MaxAvailabilityHours float64 `json:"max_availability_hours"`
	MaxDistanceKm        float64 `json:"max_distance_km"`
	MaxDrivingHours      float64 `json:"max_driving_hours"`
	MaxAmplitudeHours    float64 `json:"max_amplitude_hours"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxLicenseCount:      3,
		MaxAvailabilityHours: 8,
		MaxDistanceKm:        100,
		MaxDrivingHours:      10,
		MaxAmplitudeHours:    14,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxLicenseCount <= 0 {
		l.MaxLicenseCount = d.MaxLicenseCount
	}
	if l.MaxAvailabilityHours <= 0 {
		l.MaxAvailabilityHours = d.MaxAvailabilityHours
	}
	if l.MaxDistanceKm <= 0 {
		l.MaxDistanceKm = d.MaxDistanceKm
	}
	if l.MaxDrivingHours <= 0 {
		l.MaxDrivingHours = d.MaxDrivingHours
	}
	if l.MaxAmplitudeHours <= 0 {
		l.MaxAmplitudeHours = d.MaxAmplitudeHours
	}
	return l
}

type Input struct {
	LicenseCount            int     `json:"license_count"`
	AvailabilityHours       float64 `json:"availability_hours"`
	DistanceKm              float64 `json:"distance_km"`
	RemainingDrivingHours   float64 `json:"remaining_driving_hours"`
	RemainingAmplitudeHours float64 `json:"remaining_amplitude_hours"`
}

type Breakdown struct {
	Licenses     float64 `json:"licenses"`
	Availability float64 `json:"availability"`
	Proximity    float64 `json:"proximity"`
	Regulatory   float64 `json:"regulatory"`
}

type FlexibilityScore struct {
	Total     float64   `json:"total_score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Profile is what dispatch knows about a driver apart from their position.
type Profile struct {
	DriverID                types.ID `json:"driver_id"`
	LicenseCount            int      `json:"license_count"`
	AvailabilityHours       float64  `json:"availability_hours"`
	RemainingDrivingHours   float64  `json:"remaining_driving_hours"`
	RemainingAmplitudeHours float64  `json:"remaining_amplitude_hours"`
}

// Nearby is a driver found by the position index.
type Nearby struct {
	DriverID   types.ID    `json:"driver_id"`
	Position   types.Point `json:"position"`
	DistanceKm float64     `json:"distance_km"`
}

type Candidate struct {
	DriverID   types.ID         `json:"driver_id"`
	DistanceKm float64          `json:"distance_km"`
	Score      FlexibilityScore `json:"score"`
}

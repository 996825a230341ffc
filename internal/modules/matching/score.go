package matching

import "ridecost/internal/types"

// CalculateFlexibilityScore rates a driver/vehicle pairing from 0 to 100 as
// four equally weighted components, each clamped to [0, 25]. Non-positive
// limits fall back to DefaultLimits.
func CalculateFlexibilityScore(in Input, limits Limits) FlexibilityScore {
	l := limits.withDefaults()

	b := Breakdown{
		Licenses:     weighted(min(float64(in.LicenseCount), l.MaxLicenseCount) / l.MaxLicenseCount),
		Availability: weighted(min(in.AvailabilityHours, l.MaxAvailabilityHours) / l.MaxAvailabilityHours),
		Proximity:    weighted(1 - min(max(in.DistanceKm, 0), l.MaxDistanceKm)/l.MaxDistanceKm),
		Regulatory: weighted((clamp01(in.RemainingDrivingHours/l.MaxDrivingHours) +
			clamp01(in.RemainingAmplitudeHours/l.MaxAmplitudeHours)) / 2),
	}
	return FlexibilityScore{
		Total:     types.Round2(b.Licenses + b.Availability + b.Proximity + b.Regulatory),
		Breakdown: b,
	}
}

func weighted(ratio float64) float64 {
	return types.Round2(clamp01(ratio) * componentWeight)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

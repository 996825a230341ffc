package pricing

import "ridecost/internal/types"

// MatchTemporalVector returns the first active package for the dropoff zone
// and vehicle category whose origin allow-list admits the pickup zone. An
// empty pickupZoneID only matches packages with no allow-list.
func MatchTemporalVector(packages []Package, dropoffZoneID, pickupZoneID types.ID, vehicleCategoryID string, estimatedHours float64) *TemporalVectorResult {
	if dropoffZoneID == "" {
		return nil
	}
	for _, p := range packages {
		if !p.Active || p.DestinationZoneID != dropoffZoneID || p.VehicleCategoryID != vehicleCategoryID {
			continue
		}
		if !originAllowed(p.AllowedOriginZones, pickupZoneID) {
			continue
		}

		var minimum float64
		if p.MinimumDurationHours != nil {
			minimum = *p.MinimumDurationHours
		}
		res := &TemporalVectorResult{
			PackageID:            p.ID,
			PackageName:          p.Name,
			Price:                p.Price,
			MinimumDurationHours: minimum,
			ActualEstimatedHours: estimatedHours,
			DurationUsed:         estimatedHours,
			DurationSource:       DurationActualEstimate,
		}
		if estimatedHours <= minimum {
			res.DurationUsed = minimum
			res.DurationSource = DurationTemporalVector
		}
		if p.OverridePrice != nil && *p.OverridePrice > 0 {
			res.Price = *p.OverridePrice
			res.OverrideApplied = true
		}
		return res
	}
	return nil
}

func originAllowed(allowed []types.ID, pickupZoneID types.ID) bool {
	if len(allowed) == 0 {
		return true
	}
	if pickupZoneID == "" {
		return false
	}
	for _, id := range allowed {
		if id == pickupZoneID {
			return true
		}
	}
	return false
}

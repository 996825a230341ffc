package zone

import "ridecost/internal/types"

// Aggregation combines pickup and dropoff multipliers.
type Aggregation string

const (
	AggregationMax         Aggregation = "MAX"
	AggregationPickupOnly  Aggregation = "PICKUP_ONLY"
	AggregationDropoffOnly Aggregation = "DROPOFF_ONLY"
	AggregationAverage     Aggregation = "AVERAGE"
)

// AggregateMultiplier returns the multiplier applied to the base price.
// An absent zone counts as 1.0; unknown modes behave as MAX.
func AggregateMultiplier(pickup, dropoff *Zone, mode Aggregation) float64 {
	pm, dm := pickup.EffectiveMultiplier(), dropoff.EffectiveMultiplier()
	switch mode {
	case AggregationPickupOnly:
		return pm
	case AggregationDropoffOnly:
		return dm
	case AggregationAverage:
		return types.Round2((pm + dm) / 2)
	default:
		if pm > dm {
			return pm
		}
		return dm
	}
}

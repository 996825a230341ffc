// README: Zone detection and overlap conflict resolution.
package zone

import (
	"math"

	"ridecost/internal/geo"
	"ridecost/internal/types"
)

// Strategy picks one zone when several contain a point.
type Strategy string

const (
	StrategySpecificity   Strategy = ""
	StrategyPriority      Strategy = "PRIORITY"
	StrategyMostExpensive Strategy = "MOST_EXPENSIVE"
	StrategyClosest       Strategy = "CLOSEST"
	StrategyCombined      Strategy = "COMBINED"
)

func specificity(t Type) int {
	switch t {
	case TypePoint:
		return 0
	case TypeRadius:
		return 1
	case TypePolygon:
		return 2
	case TypeCorridor:
		return 3
	default:
		return 4
	}
}

// FindZonesForPoint returns the active zones containing p, in configuration order.
func FindZonesForPoint(p types.Point, zones []Zone) []Zone {
	var out []Zone
	for _, z := range zones {
		if z.Active && z.Contains(p) {
			out = append(out, z)
		}
	}
	return out
}

// ResolveConflict returns the winning zone among matches, or nil when empty.
// Ties under any strategy fall back to specificity, then configuration order.
func ResolveConflict(p types.Point, matches []Zone, strategy Strategy) *Zone {
	if len(matches) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(matches); i++ {
		if beats(p, matches[i], matches[best], strategy) {
			best = i
		}
	}
	z := matches[best]
	return &z
}

func beats(p types.Point, a, b Zone, strategy Strategy) bool {
	switch strategy {
	case StrategyPriority:
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
	case StrategyMostExpensive:
		if a.Multiplier != b.Multiplier {
			return a.Multiplier > b.Multiplier
		}
	case StrategyClosest:
		da, db := centerDistance(p, a), centerDistance(p, b)
		if da != db {
			return da < db
		}
	case StrategyCombined:
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Multiplier != b.Multiplier {
			return a.Multiplier > b.Multiplier
		}
	}
	return specificity(a.Type()) < specificity(b.Type())
}

func centerDistance(p types.Point, z Zone) float64 {
	if z.Geometry == nil {
		return math.Inf(1)
	}
	return geo.HaversineKm(p, z.Geometry.Center())
}

// DetectZone finds the zone that governs p, or nil outside every zone.
func DetectZone(p types.Point, zones []Zone, strategy Strategy) *Zone {
	return ResolveConflict(p, FindZonesForPoint(p, zones), strategy)
}

// README: Pricing zones and their geometries.
package zone

import (
	"errors"
	"fmt"

	"ridecost/internal/geo"
	"ridecost/internal/types"
)

type Type string

const (
	TypePoint    Type = "POINT"
	TypeRadius   Type = "RADIUS"
	TypePolygon  Type = "POLYGON"
	TypeCorridor Type = "CORRIDOR"
)

// DefaultPointRadiusKm is the match radius of a POINT zone with none configured.
const DefaultPointRadiusKm = 0.1

var ErrInvalidGeometry = errors.New("invalid zone geometry")

// Geometry is implemented by PointGeometry, RadiusGeometry, PolygonGeometry
// and CorridorGeometry.
type Geometry interface {
	Type() Type
	Contains(p types.Point) bool
	Center() types.Point
}

type PointGeometry struct {
	Location types.Point `json:"location"`
	RadiusKm float64     `json:"radius_km,omitempty"`
}

func (g PointGeometry) Type() Type          { return TypePoint }
func (g PointGeometry) Center() types.Point { return g.Location }

func (g PointGeometry) Contains(p types.Point) bool {
	r := g.RadiusKm
	if r <= 0 {
		r = DefaultPointRadiusKm
	}
	return geo.PointInRadius(p, g.Location, r)
}

type RadiusGeometry struct {
	Location types.Point `json:"location"`
	RadiusKm float64     `json:"radius_km"`
}

func (g RadiusGeometry) Type() Type          { return TypeRadius }
func (g RadiusGeometry) Center() types.Point { return g.Location }

func (g RadiusGeometry) Contains(p types.Point) bool {
	return geo.PointInRadius(p, g.Location, g.RadiusKm)
}

type PolygonGeometry struct {
	Vertices []types.Point `json:"vertices"`
}

func (g PolygonGeometry) Type() Type                  { return TypePolygon }
func (g PolygonGeometry) Center() types.Point         { return geo.Centroid(g.Vertices) }
func (g PolygonGeometry) Contains(p types.Point) bool { return geo.PointInPolygon(p, g.Vertices) }

// CorridorGeometry is a polygon buffered around a road axis, stored as its outline.
type CorridorGeometry struct {
	Vertices []types.Point `json:"vertices"`
}

func (g CorridorGeometry) Type() Type                  { return TypeCorridor }
func (g CorridorGeometry) Center() types.Point         { return geo.Centroid(g.Vertices) }
func (g CorridorGeometry) Contains(p types.Point) bool { return geo.PointInPolygon(p, g.Vertices) }

// NewGeometry builds the geometry for a stored zone row.
func NewGeometry(t Type, center *types.Point, radiusKm float64, vertices []types.Point) (Geometry, error) {
	switch t {
	case TypePoint:
		if center == nil {
			return nil, fmt.Errorf("%w: point zone without center", ErrInvalidGeometry)
		}
		return PointGeometry{Location: *center, RadiusKm: radiusKm}, nil
	case TypeRadius:
		if center == nil || radiusKm <= 0 {
			return nil, fmt.Errorf("%w: radius zone needs center and positive radius", ErrInvalidGeometry)
		}
		return RadiusGeometry{Location: *center, RadiusKm: radiusKm}, nil
	case TypePolygon:
		if len(vertices) < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 vertices", ErrInvalidGeometry)
		}
		return PolygonGeometry{Vertices: vertices}, nil
	case TypeCorridor:
		if len(vertices) < 3 {
			return nil, fmt.Errorf("%w: corridor needs at least 3 vertices", ErrInvalidGeometry)
		}
		return CorridorGeometry{Vertices: vertices}, nil
	default:
		return nil, fmt.Errorf("%w: unknown zone type %q", ErrInvalidGeometry, t)
	}
}

type Zone struct {
	ID                    types.ID `json:"id"`
	Code                  string   `json:"code"`
	Name                  string   `json:"name"`
	Geometry              Geometry `json:"geometry"`
	Multiplier            float64  `json:"multiplier"`
	Priority              int      `json:"priority"`
	FixedParkingSurcharge *float64 `json:"fixed_parking_surcharge,omitempty"`
	FixedAccessFee        *float64 `json:"fixed_access_fee,omitempty"`
	SurchargeDescription  string   `json:"surcharge_description,omitempty"`
	Active                bool     `json:"active"`
}

func (z Zone) Type() Type {
	if z.Geometry == nil {
		return ""
	}
	return z.Geometry.Type()
}

func (z Zone) Contains(p types.Point) bool {
	return z.Geometry != nil && z.Geometry.Contains(p)
}

// EffectiveMultiplier treats a missing or non-positive multiplier as neutral.
func (z *Zone) EffectiveMultiplier() float64 {
	if z == nil || z.Multiplier <= 0 {
		return 1.0
	}
	return z.Multiplier
}

// Ref is the compact zone identity embedded in results.
type Ref struct {
	ID         types.ID `json:"id"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Type       Type     `json:"type"`
	Multiplier float64  `json:"multiplier"`
}

func (z *Zone) Ref() *Ref {
	if z == nil {
		return nil
	}
	return &Ref{ID: z.ID, Code: z.Code, Name: z.Name, Type: z.Type(), Multiplier: z.EffectiveMultiplier()}
}

package pricing

import (
	"ridecost/internal/geo"
	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

// RouteSegment is a maximal run of consecutive polyline vertices that share a zone.
type RouteSegment struct {
	ZoneID          types.ID `json:"zone_id,omitempty"`
	ZoneCode        string   `json:"zone_code,omitempty"`
	ZoneName        string   `json:"zone_name,omitempty"`
	Multiplier      float64  `json:"multiplier"`
	DistanceKm      float64  `json:"distance_km"`
	DurationMinutes float64  `json:"duration_minutes"`
	StartIndex      int      `json:"start_index"`
	EndIndex        int      `json:"end_index"`
}

// SegmentRoute splits a decoded polyline by zone. Each edge is charged to
// the zone of its starting vertex; duration is shared out by distance.
func SegmentRoute(points []types.Point, totalDurationMinutes float64, zones []zone.Zone, strategy zone.Strategy) []RouteSegment {
	if len(points) == 0 {
		return nil
	}

	var segments []RouteSegment
	var totalKm float64
	for i, p := range points {
		z := zone.DetectZone(p, zones, strategy)
		var id types.ID
		if z != nil {
			id = z.ID
		}

		if i > 0 {
			d := geo.HaversineKm(points[i-1], p)
			segments[len(segments)-1].DistanceKm += d
			totalKm += d
		}
		if len(segments) > 0 && segments[len(segments)-1].ZoneID == id {
			segments[len(segments)-1].EndIndex = i
			continue
		}

		seg := RouteSegment{ZoneID: id, Multiplier: z.EffectiveMultiplier(), StartIndex: i, EndIndex: i}
		if z != nil {
			seg.ZoneCode, seg.ZoneName = z.Code, z.Name
		}
		segments = append(segments, seg)
	}

	for i := range segments {
		switch {
		case totalKm > 0:
			segments[i].DurationMinutes = totalDurationMinutes * segments[i].DistanceKm / totalKm
		case i == 0:
			segments[i].DurationMinutes = totalDurationMinutes
		}
	}
	return segments
}

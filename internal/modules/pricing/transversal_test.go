package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecost/internal/maps"
	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

func band(id types.ID, code string, minLng, maxLng, multiplier float64) zone.Zone {
	return zone.Zone{
		ID:   id,
		Code: code,
		Geometry: zone.PolygonGeometry{Vertices: []types.Point{
			{Lat: 48, Lng: minLng}, {Lat: 48, Lng: maxLng}, {Lat: 49, Lng: maxLng}, {Lat: 49, Lng: minLng},
		}},
		Multiplier: multiplier,
		Active:     true,
	}
}

func bandZones() []zone.Zone {
	return []zone.Zone{
		band("west", "WEST", 1, 2, 1.0),
		band("mid", "TRANSIT", 2, 3, 1.2),
		band("east", "EAST", 3, 4, 1.5),
	}
}

func eastwardRoute() []types.Point {
	return []types.Point{
		{Lat: 48.5, Lng: 1.5}, {Lat: 48.5, Lng: 1.8}, {Lat: 48.5, Lng: 2.2},
		{Lat: 48.5, Lng: 2.8}, {Lat: 48.5, Lng: 3.2}, {Lat: 48.5, Lng: 3.5},
	}
}

func TestSegmentRoute(t *testing.T) {
	points := eastwardRoute()
	segments := SegmentRoute(points, 120, bandZones(), zone.StrategySpecificity)

	require.Len(t, segments, 3)
	assert.Equal(t, []types.ID{"west", "mid", "east"}, []types.ID{segments[0].ZoneID, segments[1].ZoneID, segments[2].ZoneID})
	assert.Equal(t, 0, segments[0].StartIndex)
	assert.Equal(t, 1, segments[0].EndIndex)
	assert.Equal(t, 1.2, segments[1].Multiplier)

	var km, minutes float64
	for _, s := range segments {
		km += s.DistanceKm
		minutes += s.DurationMinutes
	}
	assert.InDelta(t, 120, minutes, 1e-9)
	assert.Greater(t, segments[1].DistanceKm, segments[2].DistanceKm)
	// durations follow distance shares
	assert.InDelta(t, segments[1].DistanceKm/km*120, segments[1].DurationMinutes, 1e-9)
}

func TestSegmentRoute_Unzoned(t *testing.T) {
	points := []types.Point{{Lat: 10, Lng: 10}, {Lat: 10.1, Lng: 10}}
	segments := SegmentRoute(points, 30, bandZones(), zone.StrategySpecificity)
	require.Len(t, segments, 1)
	assert.Empty(t, segments[0].ZoneID)
	assert.Equal(t, 1.0, segments[0].Multiplier)
	assert.Equal(t, 30.0, segments[0].DurationMinutes)

	assert.Nil(t, SegmentRoute(nil, 30, bandZones(), zone.StrategySpecificity))
}

func TestSegmentRoute_FromEncodedPolyline(t *testing.T) {
	decoded, err := maps.DecodePolyline(maps.EncodePolyline(eastwardRoute()))
	require.NoError(t, err)
	segments := SegmentRoute(decoded, 90, bandZones(), zone.StrategySpecificity)
	assert.Len(t, segments, 3)
}

func TestDecomposeTransversalTrip(t *testing.T) {
	zones := bandZones()
	west, east := &zones[0], &zones[2]
	segments := []RouteSegment{
		{ZoneID: "west", ZoneCode: "WEST", Multiplier: 1.0, DistanceKm: 10, DurationMinutes: 12},
		{ZoneID: "mid", ZoneCode: "TRANSIT", Multiplier: 1.2, DistanceKm: 30, DurationMinutes: 20},
		{ZoneID: "east", ZoneCode: "EAST", Multiplier: 1.5, DistanceKm: 5, DurationMinutes: 30},
	}
	cfg := TransversalConfig{
		RatePerKm:              2,
		RatePerHour:            60,
		TransitDiscountEnabled: true,
		TransitDiscountPercent: 10,
		TransitZoneCodes:       []string{"TRANSIT", "WEST"},
	}

	dec := DecomposeTransversalTrip(segments, west, east, cfg)

	require.True(t, dec.IsTransversal)
	assert.Equal(t, []types.ID{"west", "mid", "east"}, dec.ZoneSequence)
	require.Len(t, dec.Segments, 3)

	assert.Equal(t, 20.0, dec.Segments[0].Price)
	assert.False(t, dec.Segments[0].IsTransit, "pickup zone is never transit")
	assert.Equal(t, 72.0, dec.Segments[1].Price)
	assert.True(t, dec.Segments[1].IsTransit)
	assert.Equal(t, 7.2, dec.Segments[1].Discount)
	assert.Equal(t, 64.8, dec.Segments[1].FinalPrice)
	assert.Equal(t, 45.0, dec.Segments[2].Price)

	assert.Equal(t, 137.0, dec.PriceBeforeDiscount)
	assert.Equal(t, 7.2, dec.TotalDiscount)
	assert.Equal(t, 129.8, dec.PriceAfterDiscount)

	cfg.TransitDiscountEnabled = false
	dec = DecomposeTransversalTrip(segments, west, east, cfg)
	assert.True(t, dec.Segments[1].IsTransit)
	assert.Zero(t, dec.TotalDiscount)
	assert.Equal(t, 137.0, dec.PriceAfterDiscount)
}

func TestDecomposeTransversalTrip_Classification(t *testing.T) {
	zones := bandZones()
	west, mid, east := &zones[0], &zones[1], &zones[2]
	seg := func(id types.ID) RouteSegment { return RouteSegment{ZoneID: id, Multiplier: 1, DistanceKm: 1} }

	tests := []struct {
		name     string
		segments []RouteSegment
		pickup   *zone.Zone
		dropoff  *zone.Zone
		want     bool
	}{
		{name: "single zone", segments: []RouteSegment{seg("west")}, pickup: west, dropoff: west, want: false},
		{name: "two zones", segments: []RouteSegment{seg("west"), seg("east")}, pickup: west, dropoff: east, want: false},
		{name: "two zones revisited", segments: []RouteSegment{seg("west"), seg("east"), seg("west")}, pickup: west, dropoff: west, want: false},
		{name: "unzoned gap is not a zone", segments: []RouteSegment{seg("west"), seg(""), seg("east")}, pickup: west, dropoff: east, want: false},
		{name: "three zones", segments: []RouteSegment{seg("west"), seg("mid"), seg("east")}, pickup: west, dropoff: east, want: true},
		{name: "intermediate only from segments", segments: []RouteSegment{seg("mid")}, pickup: west, dropoff: east, want: true},
		{name: "no pickup zone", segments: []RouteSegment{seg("west"), seg("mid"), seg("east")}, pickup: nil, dropoff: nil, want: true},
		{name: "round trip through middle", segments: []RouteSegment{seg("west"), seg("mid"), seg("west")}, pickup: west, dropoff: west, want: false},
		{name: "mid only", segments: []RouteSegment{seg("mid")}, pickup: mid, dropoff: mid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeTransversalTrip(tt.segments, tt.pickup, tt.dropoff, TransversalConfig{RatePerKm: 1})
			assert.Equal(t, tt.want, got.IsTransversal)
			if !tt.want {
				assert.Empty(t, got.Segments)
			}
		})
	}
}

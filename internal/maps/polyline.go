package maps

import (
	"fmt"

	gmaps "googlemaps.github.io/maps"

	"ridecost/internal/types"
)

// DecodePolyline turns an encoded route polyline into points.
func DecodePolyline(encoded string) ([]types.Point, error) {
	if encoded == "" {
		return nil, nil
	}
	latLngs, err := gmaps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	points := make([]types.Point, len(latLngs))
	for i, ll := range latLngs {
		points[i] = types.Point{Lat: ll.Lat, Lng: ll.Lng}
	}
	return points, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(points []types.Point) string {
	latLngs := make([]gmaps.LatLng, len(points))
	for i, p := range points {
		latLngs[i] = gmaps.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return gmaps.Encode(latLngs)
}

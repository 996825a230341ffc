// Package geo contains pure geographic computation helpers: distances,
// containment tests and cache-key hashing.
package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"ridecost/internal/types"
)

const earthRadiusKm = 6371.0

// hashLength is the number of hex characters kept from the coordinate digest.
const hashLength = 16

// HaversineKm returns the great-circle distance in kilometres between two points.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// PointInRadius reports whether p lies within radiusKm of center (inclusive).
func PointInRadius(p, center types.Point, radiusKm float64) bool {
	if radiusKm < 0 {
		return false
	}
	return HaversineKm(p, center) <= radiusKm
}

// PointInPolygon uses the crossing-number rule on a planar lat/lng projection.
// Edges are half-open: an edge is crossed only when exactly one endpoint lies
// strictly above the point, so a point on an edge shared by two adjacent
// polygons belongs to exactly one of them.
func PointInPolygon(p types.Point, polygon []types.Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			crossLng := (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if p.Lng < crossLng {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid returns the vertex average of a polygon, or the zero point when empty.
func Centroid(polygon []types.Point) types.Point {
	if len(polygon) == 0 {
		return types.Point{}
	}
	var lat, lng float64
	for _, v := range polygon {
		lat += v.Lat
		lng += v.Lng
	}
	n := float64(len(polygon))
	return types.Point{Lat: lat / n, Lng: lng / n}
}

// HashCoordinates returns a 16-character digest of p rounded to 4 decimals
// (~11 m), so requests jittering inside that cell share a cache key.
func HashCoordinates(p types.Point) string {
	key := fmt.Sprintf("%.4f,%.4f", roundTo4(p.Lat), roundTo4(p.Lng))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:hashLength]
}

func roundTo4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		// avoid "-0.0000" hashing differently from "0.0000"
		return 0
	}
	return r
}

// SortByDistance performs a stable insertion sort (fine for small N) on any
// slice where each element exposes a distance via the accessor function.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

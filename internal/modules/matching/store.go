// README: Driver position index backed by Redis GEO.
package matching

import (
	"context"

	"github.com/redis/go-redis/v9"

	"ridecost/internal/types"
)

const driverGeoKey = "dispatch:drivers"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) UpsertPosition(ctx context.Context, driverID types.ID, p types.Point) error {
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

func (s *Store) RemoveDriver(ctx context.Context, driverID types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(driverID)).Err()
}

// Nearby lists drivers within radiusKm of p, closest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]Nearby, error) {
	locs, err := s.redis.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Nearby, len(locs))
	for i, l := range locs {
		out[i] = Nearby{
			DriverID:   types.ID(l.Name),
			Position:   types.Point{Lat: l.Latitude, Lng: l.Longitude},
			DistanceKm: l.Dist,
		}
	}
	return out, nil
}

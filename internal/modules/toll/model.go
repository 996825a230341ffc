// README: Toll cache entries, lookup results and caller configuration.
package toll

import (
	"errors"
	"time"

	"ridecost/internal/geo"
	"ridecost/internal/types"
)

type Source string

const (
	SourceGoogleAPI Source = "GOOGLE_API"
	SourceEstimate  Source = "ESTIMATE"
)

const (
	// DefaultTTL is how long a fetched toll stays authoritative.
	DefaultTTL = 24 * time.Hour
	// SentinelAmount tells the caller to apply the flat-rate fallback.
	SentinelAmount = -1.0
)

var ErrCacheMiss = errors.New("toll cache miss")

// Key identifies one rounded origin/destination pair.
type Key struct {
	OriginHash      string
	DestinationHash string
}

func KeyFor(origin, destination types.Point) Key {
	return Key{
		OriginHash:      geo.HashCoordinates(origin),
		DestinationHash: geo.HashCoordinates(destination),
	}
}

type Entry struct {
	OriginHash      string    `json:"origin_hash" dynamodbav:"origin_hash"`
	DestinationHash string    `json:"destination_hash" dynamodbav:"destination_hash"`
	TollAmount      float64   `json:"toll_amount" dynamodbav:"toll_amount"`
	Currency        string    `json:"currency" dynamodbav:"currency"`
	Source          Source    `json:"source" dynamodbav:"source"`
	FetchedAt       time.Time `json:"fetched_at" dynamodbav:"fetched_at"`
	ExpiresAt       time.Time `json:"expires_at" dynamodbav:"expires_at"`
	EncodedPolyline string    `json:"encoded_polyline,omitempty" dynamodbav:"encoded_polyline,omitempty"`
}

func (e Entry) Key() Key {
	return Key{OriginHash: e.OriginHash, DestinationHash: e.DestinationHash}
}

// Result is what GetTollCost hands back. Distance and duration are only
// known when the routing API was actually called.
type Result struct {
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Source          Source    `json:"source"`
	IsFromCache     bool      `json:"is_from_cache"`
	EncodedPolyline string    `json:"encoded_polyline,omitempty"`
	DistanceMeters  int       `json:"distance_meters,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	FetchedAt       time.Time `json:"fetched_at,omitempty"`
	FallbackReason  string    `json:"fallback_reason,omitempty"`
}

// NeedsFallback reports whether the result is the estimate sentinel.
func (r Result) NeedsFallback() bool {
	return r.Source == SourceEstimate && r.Amount < 0
}

// RouteToll is the toll of a route fetched outside this package, e.g. by
// the scenario optimizer.
type RouteToll struct {
	Amount          float64
	EncodedPolyline string
	DistanceMeters  int
	DurationSeconds int
}

type Config struct {
	APIKey            string
	FallbackRatePerKm float64
}

// DefaultFallbackRatePerKm approximates French motorway tolls for a class 1 vehicle.
const DefaultFallbackRatePerKm = 0.12

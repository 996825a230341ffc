// README: Pricing requests, settings, packages and the composed result.
package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"ridecost/internal/modules/routing"
	"ridecost/internal/modules/toll"
	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

var ErrInvalidRequest = errors.New("invalid pricing request")

type Mode string

const (
	ModeFixedPackage Mode = "FIXED_PACKAGE"
	ModeTransversal  Mode = "TRANSVERSAL"
	ModeDynamic      Mode = "DYNAMIC"
)

type DistanceSource string

const (
	DistanceFromRoutes   DistanceSource = "ROUTES_API"
	DistanceFromEstimate DistanceSource = "ESTIMATE"
)

const (
	// RoadFactor converts a great-circle distance into a road distance.
	RoadFactor = 1.3
	// AverageSpeedKmh is used when no routing data is available.
	AverageSpeedKmh = 50.0
)

type Request struct {
	OrganizationID    string      `json:"organization_id"`
	QuoteID           string      `json:"quote_id,omitempty"`
	Pickup            types.Point `json:"pickup"`
	Dropoff           types.Point `json:"dropoff"`
	VehicleCategoryID string      `json:"vehicle_category_id"`
}

// Package is a temporal-vector product: a fixed price for an excursion to a
// destination zone with a minimum billable duration.
type Package struct {
	ID                   types.ID   `json:"id"`
	Name                 string     `json:"name"`
	DestinationZoneID    types.ID   `json:"destination_zone_id"`
	VehicleCategoryID    string     `json:"vehicle_category_id"`
	Price                float64    `json:"price"`
	OverridePrice        *float64   `json:"override_price,omitempty"`
	MinimumDurationHours *float64   `json:"minimum_duration_hours,omitempty"`
	AllowedOriginZones   []types.ID `json:"allowed_origin_zones,omitempty"`
	Active               bool       `json:"active"`
}

type DurationSource string

const (
	DurationTemporalVector DurationSource = "TEMPORAL_VECTOR"
	DurationActualEstimate DurationSource = "ACTUAL_ESTIMATE"
)

type TemporalVectorResult struct {
	PackageID            types.ID       `json:"package_id"`
	PackageName          string         `json:"package_name"`
	Price                float64        `json:"price"`
	OverrideApplied      bool           `json:"override_applied"`
	MinimumDurationHours float64        `json:"minimum_duration_hours"`
	ActualEstimatedHours float64        `json:"actual_estimated_hours"`
	DurationUsed         float64        `json:"duration_used"`
	DurationSource       DurationSource `json:"duration_source"`
}

type TransversalConfig struct {
	RatePerKm              float64  `json:"rate_per_km"`
	RatePerHour            float64  `json:"rate_per_hour"`
	TransitDiscountEnabled bool     `json:"transit_discount_enabled"`
	TransitDiscountPercent float64  `json:"transit_discount_percent"`
	TransitZoneCodes       []string `json:"transit_zone_codes,omitempty"`
}

// Settings are an organisation's pricing parameters, already normalised to
// plain numbers by the store.
type Settings struct {
	BaseRatePerKm        float64           `json:"base_rate_per_km"`
	BaseRatePerHour      float64           `json:"base_rate_per_hour"`
	MinimumFare          float64           `json:"minimum_fare"`
	TargetMarginPercent  float64           `json:"target_margin_percent"`
	ZoneConflictStrategy zone.Strategy     `json:"zone_conflict_strategy"`
	ZoneMultiplierMode   zone.Aggregation  `json:"zone_multiplier_mode"`
	TollRatePerKm        float64           `json:"toll_rate_per_km"`
	TCO                  routing.TCOConfig `json:"tco"`
	Transversal          TransversalConfig `json:"transversal"`
}

func DefaultSettings() Settings {
	return Settings{
		BaseRatePerKm:      1.80,
		BaseRatePerHour:    45,
		MinimumFare:        25,
		ZoneMultiplierMode: zone.AggregationMax,
		TollRatePerKm:      toll.DefaultFallbackRatePerKm,
		TCO:                routing.DefaultTCOConfig(),
	}
}

// transversalConfig fills missing segment rates from the base rates.
func (s Settings) transversalConfig() TransversalConfig {
	cfg := s.Transversal
	if cfg.RatePerKm <= 0 {
		cfg.RatePerKm = s.BaseRatePerKm
	}
	if cfg.RatePerHour <= 0 {
		cfg.RatePerHour = s.BaseRatePerHour
	}
	return cfg
}

type CostBreakdown struct {
	Fuel   float64 `json:"fuel"`
	Driver float64 `json:"driver"`
	Toll   float64 `json:"toll"`
	Wear   float64 `json:"wear"`
	Total  float64 `json:"total"`
}

// TripAnalysis is the cost side of a quote, snapshotted with it.
type TripAnalysis struct {
	DistanceKm      float64             `json:"distance_km"`
	DurationMinutes float64             `json:"duration_minutes"`
	DistanceSource  DistanceSource      `json:"distance_source"`
	Routes          routing.Calculation `json:"routes"`
	Toll            toll.Result         `json:"toll"`
	Costs           CostBreakdown       `json:"costs"`
	Margin          float64             `json:"margin"`
	MarginPercent   float64             `json:"margin_percent"`
	BelowTarget     bool                `json:"below_target_margin"`
}

type Result struct {
	ID                 uuid.UUID                 `json:"id"`
	OrganizationID     string                    `json:"organization_id"`
	QuoteID            string                    `json:"quote_id,omitempty"`
	Mode               Mode                      `json:"mode"`
	Price              types.Money               `json:"price"`
	BasePrice          float64                   `json:"base_price"`
	Multiplier         float64                   `json:"multiplier"`
	PickupZone         *zone.Ref                 `json:"pickup_zone,omitempty"`
	DropoffZone        *zone.Ref                 `json:"dropoff_zone,omitempty"`
	Surcharges         zone.Surcharges           `json:"surcharges"`
	TemporalVector     *TemporalVectorResult     `json:"temporal_vector,omitempty"`
	Transversal        *TransversalDecomposition `json:"transversal,omitempty"`
	MinimumFareApplied bool                      `json:"minimum_fare_applied"`
	Analysis           TripAnalysis              `json:"analysis"`
	CalculatedAt       time.Time                 `json:"calculated_at"`
}

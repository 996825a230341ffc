// README: Pricing engine: zones, route scenarios, toll, mode selection,
// surcharges, minimum fare and trip analysis composed into one Result.
package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ridecost/internal/geo"
	"ridecost/internal/maps"
	"ridecost/internal/modules/routing"
	"ridecost/internal/modules/toll"
	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

// ConfigSource supplies an organisation's zones, packages and settings.
type ConfigSource interface {
	LoadZones(ctx context.Context, orgID string) ([]zone.Zone, error)
	LoadPackages(ctx context.Context, orgID string) ([]Package, error)
	LoadSettings(ctx context.Context, orgID string) (Settings, error)
}

type ScenarioCalculator interface {
	CalculateRouteScenarios(ctx context.Context, origin, destination types.Point, apiKey string, cfg routing.TCOConfig) routing.Calculation
}

// TollResolver is satisfied by *toll.Service. The engine never asks it to
// call the routing API: tolls come from the recommended scenario, or from
// the cache and the flat rate when no route is available.
type TollResolver interface {
	RecordRouteToll(ctx context.Context, origin, destination types.Point, rt toll.RouteToll) toll.Result
	CachedToll(ctx context.Context, origin, destination types.Point, distanceKm, fallbackRatePerKm float64) toll.Result
}

type Engine struct {
	config    ConfigSource
	scenarios ScenarioCalculator
	tolls     TollResolver
	apiKey    string
	now       func() time.Time
	log       *zap.Logger
}

func NewEngine(config ConfigSource, scenarios ScenarioCalculator, tolls TollResolver, apiKey string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:    config,
		scenarios: scenarios,
		tolls:     tolls,
		apiKey:    apiKey,
		now:       time.Now,
		log:       logger,
	}
}

func (r Request) validate() error {
	if r.OrganizationID == "" {
		return fmt.Errorf("%w: organization_id is required", ErrInvalidRequest)
	}
	if !r.Pickup.Valid() || !r.Dropoff.Valid() {
		return fmt.Errorf("%w: pickup and dropoff must be valid coordinates", ErrInvalidRequest)
	}
	return nil
}

// Calculate prices one trip. External routing or toll failures degrade to
// estimates; only invalid input and configuration reads return errors.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	zones, err := e.config.LoadZones(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	packages, err := e.config.LoadPackages(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	settings, err := e.config.LoadSettings(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	pickupZone := zone.DetectZone(req.Pickup, zones, settings.ZoneConflictStrategy)
	dropoffZone := zone.DetectZone(req.Dropoff, zones, settings.ZoneConflictStrategy)

	res := &Result{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		QuoteID:        req.QuoteID,
		PickupZone:     pickupZone.Ref(),
		DropoffZone:    dropoffZone.Ref(),
		CalculatedAt:   e.now(),
	}

	// Route scenarios, falling back to a straight-line estimate.
	analysis := &res.Analysis
	analysis.Routes = e.scenarios.CalculateRouteScenarios(ctx, req.Pickup, req.Dropoff, e.apiKey, settings.TCO)
	var polyline string
	if rec, ok := analysis.Routes.RecommendedScenario(); ok {
		analysis.DistanceKm = rec.DistanceKm
		analysis.DurationMinutes = rec.DurationMinutes
		analysis.DistanceSource = DistanceFromRoutes
		polyline = rec.EncodedPolyline
		// The scenario's toll is the one its TCO was built from.
		analysis.Toll = e.tolls.RecordRouteToll(ctx, req.Pickup, req.Dropoff, toll.RouteToll{
			Amount:          rec.TollCost,
			EncodedPolyline: rec.EncodedPolyline,
			DistanceMeters:  int(math.Round(rec.DistanceKm * 1000)),
			DurationSeconds: int(math.Round(rec.DurationMinutes * 60)),
		})
	} else {
		analysis.DistanceKm = types.Round2(geo.HaversineKm(req.Pickup, req.Dropoff) * RoadFactor)
		analysis.DurationMinutes = types.Round2(analysis.DistanceKm / AverageSpeedKmh * 60)
		analysis.DistanceSource = DistanceFromEstimate
		// The routing API already failed or is unconfigured; do not call it again.
		analysis.Toll = e.tolls.CachedToll(ctx, req.Pickup, req.Dropoff, analysis.DistanceKm, settings.TollRatePerKm)
	}
	if polyline == "" {
		polyline = analysis.Toll.EncodedPolyline
	}

	e.selectMode(res, req, zones, packages, settings, polyline, pickupZone, dropoffZone)

	res.Surcharges = zone.CalculateZoneSurcharges(pickupZone, dropoffZone)
	price := types.Round2(res.BasePrice*res.Multiplier + res.Surcharges.Total)
	if price < settings.MinimumFare {
		price = settings.MinimumFare
		res.MinimumFareApplied = true
	}
	res.Price = types.EUR(price)

	analysis.Costs = costBreakdown(analysis.DistanceKm, analysis.DurationMinutes, analysis.Toll.Amount, settings.TCO)
	analysis.Margin = types.Round2(price - analysis.Costs.Total)
	if price > 0 {
		analysis.MarginPercent = types.Round2(analysis.Margin / price * 100)
	}
	analysis.BelowTarget = settings.TargetMarginPercent > 0 && analysis.MarginPercent < settings.TargetMarginPercent

	e.log.Debug("trip priced",
		zap.String("organization_id", req.OrganizationID),
		zap.String("mode", string(res.Mode)),
		zap.Float64("price", price),
		zap.String("distance_source", string(analysis.DistanceSource)))
	return res, nil
}

// selectMode sets BasePrice and Multiplier. Priority: FIXED_PACKAGE,
// TRANSVERSAL, DYNAMIC. Package and transversal prices already carry
// their zone pricing so their multiplier is 1.
func (e *Engine) selectMode(res *Result, req Request, zones []zone.Zone, packages []Package, settings Settings, polyline string, pickupZone, dropoffZone *zone.Zone) {
	hours := res.Analysis.DurationMinutes / 60

	var pickupID, dropoffID types.ID
	if pickupZone != nil {
		pickupID = pickupZone.ID
	}
	if dropoffZone != nil {
		dropoffID = dropoffZone.ID
	}
	if tv := MatchTemporalVector(packages, dropoffID, pickupID, req.VehicleCategoryID, hours); tv != nil {
		res.Mode = ModeFixedPackage
		res.TemporalVector = tv
		res.BasePrice = tv.Price
		res.Multiplier = 1
		return
	}

	if polyline != "" {
		points, err := maps.DecodePolyline(polyline)
		if err != nil {
			e.log.Warn("route polyline undecodable, skipping segmentation", zap.Error(err))
		} else {
			segments := SegmentRoute(points, res.Analysis.DurationMinutes, zones, settings.ZoneConflictStrategy)
			dec := DecomposeTransversalTrip(segments, pickupZone, dropoffZone, settings.transversalConfig())
			if dec.IsTransversal {
				res.Mode = ModeTransversal
				res.Transversal = &dec
				res.BasePrice = dec.PriceAfterDiscount
				res.Multiplier = 1
				return
			}
		}
	}

	res.Mode = ModeDynamic
	byDistance := res.Analysis.DistanceKm * settings.BaseRatePerKm
	byTime := hours * settings.BaseRatePerHour
	res.BasePrice = types.Round2(max(byDistance, byTime))
	res.Multiplier = zone.AggregateMultiplier(pickupZone, dropoffZone, settings.ZoneMultiplierMode)
}

func costBreakdown(distanceKm, durationMinutes, tollAmount float64, cfg routing.TCOConfig) CostBreakdown {
	c := CostBreakdown{
		Fuel:   types.Round2(distanceKm / 100 * cfg.FuelConsumptionL100km * cfg.FuelPricePerLiter),
		Driver: types.Round2(durationMinutes / 60 * cfg.DriverHourlyCost),
		Toll:   types.Round2(max(tollAmount, 0)),
		Wear:   types.Round2(distanceKm * cfg.WearCostPerKm),
	}
	c.Total = types.Round2(c.Fuel + c.Driver + c.Toll + c.Wear)
	return c
}

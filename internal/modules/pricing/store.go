// README: Pricing store backed by PostgreSQL: tenant zones, packages and
// settings, plus trip-analysis snapshots.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

var ErrAnalysisNotFound = errors.New("trip analysis not found")

type Store struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewStore(db *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, log: logger}
}

// LoadZones returns the organisation's zones in configuration order. Rows
// with unusable geometry are skipped and logged.
func (s *Store) LoadZones(ctx context.Context, orgID string) ([]zone.Zone, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, code, name, zone_type, center_lat, center_lng, radius_km, polygon,
		       multiplier, priority, fixed_parking_surcharge, fixed_access_fee,
		       COALESCE(surcharge_description, ''), is_active
		FROM pricing_zones
		WHERE organization_id = $1
		ORDER BY sort_order, id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []zone.Zone
	for rows.Next() {
		var (
			z                  zone.Zone
			zoneType           string
			centerLat          *float64
			centerLng          *float64
			radius, multiplier pgtype.Numeric
			parking, access    pgtype.Numeric
			polygon            []byte
		)
		if err := rows.Scan(&z.ID, &z.Code, &z.Name, &zoneType, &centerLat, &centerLng, &radius, &polygon,
			&multiplier, &z.Priority, &parking, &access, &z.SurchargeDescription, &z.Active); err != nil {
			return nil, err
		}

		var center *types.Point
		if centerLat != nil && centerLng != nil {
			center = &types.Point{Lat: *centerLat, Lng: *centerLng}
		}
		var vertices []types.Point
		if len(polygon) > 0 {
			if err := json.Unmarshal(polygon, &vertices); err != nil {
				s.log.Warn("skipping zone with malformed polygon", zap.String("zone_id", string(z.ID)), zap.Error(err))
				continue
			}
		}
		g, err := zone.NewGeometry(zone.Type(zoneType), center, types.ToNumber(radius), vertices)
		if err != nil {
			s.log.Warn("skipping zone with invalid geometry", zap.String("zone_id", string(z.ID)), zap.Error(err))
			continue
		}
		z.Geometry = g
		z.Multiplier = types.ToNumber(multiplier)
		z.FixedParkingSurcharge = types.ToNumberPtr(parking)
		z.FixedAccessFee = types.ToNumberPtr(access)
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *Store) LoadPackages(ctx context.Context, orgID string) ([]Package, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, destination_zone_id, vehicle_category_id, price,
		       override_price, minimum_duration_hours, allowed_origin_zones, is_active
		FROM pricing_packages
		WHERE organization_id = $1
		ORDER BY sort_order, id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		var (
			p                       Package
			price, override, minDur pgtype.Numeric
			allowed                 []string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.DestinationZoneID, &p.VehicleCategoryID, &price,
			&override, &minDur, &allowed, &p.Active); err != nil {
			return nil, err
		}
		p.Price = types.ToNumber(price)
		p.OverridePrice = types.ToNumberPtr(override)
		p.MinimumDurationHours = types.ToNumberPtr(minDur)
		for _, id := range allowed {
			p.AllowedOriginZones = append(p.AllowedOriginZones, types.ID(id))
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// LoadSettings returns DefaultSettings overlaid with the stored row; an
// organisation without a row prices with the defaults.
func (s *Store) LoadSettings(ctx context.Context, orgID string) (Settings, error) {
	var (
		baseKm, baseHour, minFare, margin pgtype.Numeric
		strategy, mode                    string
		discountEnabled                   bool
		discountPct                       pgtype.Numeric
		transitCodes                      []string
		fuelL100, fuelPrice, driverHourly pgtype.Numeric
		wear, tollRate                    pgtype.Numeric
	)
	err := s.db.QueryRow(ctx, `
		SELECT base_rate_per_km, base_rate_per_hour, minimum_fare, target_margin_percent,
		       zone_conflict_strategy, zone_multiplier_mode,
		       transit_discount_enabled, transit_discount_percent, transit_zone_codes,
		       fuel_consumption_l100km, fuel_price_per_liter, driver_hourly_cost,
		       wear_cost_per_km, toll_rate_per_km
		FROM pricing_settings
		WHERE organization_id = $1`, orgID,
	).Scan(&baseKm, &baseHour, &minFare, &margin, &strategy, &mode,
		&discountEnabled, &discountPct, &transitCodes,
		&fuelL100, &fuelPrice, &driverHourly, &wear, &tollRate)

	settings := DefaultSettings()
	if errors.Is(err, pgx.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	settings.BaseRatePerKm = types.ToNumber(baseKm)
	settings.BaseRatePerHour = types.ToNumber(baseHour)
	settings.MinimumFare = types.ToNumber(minFare)
	settings.TargetMarginPercent = types.ToNumber(margin)
	settings.ZoneConflictStrategy = zone.Strategy(strategy)
	if mode != "" {
		settings.ZoneMultiplierMode = zone.Aggregation(mode)
	}
	settings.Transversal = TransversalConfig{
		TransitDiscountEnabled: discountEnabled,
		TransitDiscountPercent: types.ToNumber(discountPct),
		TransitZoneCodes:       transitCodes,
	}
	overlay(&settings.TCO.FuelConsumptionL100km, fuelL100)
	overlay(&settings.TCO.FuelPricePerLiter, fuelPrice)
	overlay(&settings.TCO.DriverHourlyCost, driverHourly)
	overlay(&settings.TCO.WearCostPerKm, wear)
	overlay(&settings.TollRatePerKm, tollRate)
	return settings, nil
}

func overlay(dst *float64, n pgtype.Numeric) {
	if v := types.ToNumberPtr(n); v != nil {
		*dst = *v
	}
}

// SaveAnalysis stores the full result as JSONB against the quote.
func (s *Store) SaveAnalysis(ctx context.Context, res *Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode trip analysis: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO trip_analyses (id, organization_id, quote_id, analysis, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		res.ID, res.OrganizationID, res.QuoteID, payload, res.CalculatedAt,
	)
	return err
}

// LatestAnalysis returns the most recent snapshot for a quote as raw JSON.
func (s *Store) LatestAnalysis(ctx context.Context, quoteID string) (json.RawMessage, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `
		SELECT analysis FROM trip_analyses
		WHERE quote_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, quoteID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

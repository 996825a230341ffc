// README: Toll service: cache-first toll lookup backed by the routing API,
// flat-rate fallback and expired-entry cleanup.
package toll

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ridecost/internal/maps"
	"ridecost/internal/types"
)

// RouteComputer is satisfied by *maps.RoutesClient.
type RouteComputer interface {
	ComputeRoute(ctx context.Context, apiKey string, req maps.RouteRequest) (*maps.Route, error)
}

type Service struct {
	store  Store
	routes RouteComputer
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewService wires the toll lookup. A nil store disables caching.
func NewService(store Store, routes RouteComputer, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, routes: routes, ttl: ttl, now: time.Now, log: logger}
}

// GetTollCost returns the toll for origin→destination. It never fails: any
// problem with the API yields the ESTIMATE sentinel, and cache problems are
// logged and treated as misses. There are no retries.
func (s *Service) GetTollCost(ctx context.Context, origin, destination types.Point, cfg Config) Result {
	key := KeyFor(origin, destination)
	now := s.now()

	if res, ok := s.cached(ctx, key, now); ok {
		return res
	}

	if cfg.APIKey == "" || s.routes == nil {
		return sentinel("no routing API key configured")
	}

	route, err := s.routes.ComputeRoute(ctx, cfg.APIKey, maps.RouteRequest{
		Origin:      origin,
		Destination: destination,
		Preference:  maps.PreferenceTrafficAware,
	})
	if err != nil {
		s.log.Warn("toll lookup failed, using estimate", zap.Error(err))
		return sentinel(err.Error())
	}

	return s.record(ctx, key, now, RouteToll{
		Amount:          ParseTollAmount(route),
		EncodedPolyline: route.EncodedPolyline,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
	})
}

// ResolveToll is GetTollCost with the flat-rate fallback already applied
// against the separately computed distance.
func (s *Service) ResolveToll(ctx context.Context, origin, destination types.Point, distanceKm float64, cfg Config) Result {
	res := s.GetTollCost(ctx, origin, destination, cfg)
	if res.NeedsFallback() {
		res.Amount = CalculateFallbackToll(distanceKm, cfg.FallbackRatePerKm)
	}
	return res
}

// RecordRouteToll caches the toll of a route the caller already fetched and
// returns it as a GOOGLE_API result. It makes no routing call.
func (s *Service) RecordRouteToll(ctx context.Context, origin, destination types.Point, rt RouteToll) Result {
	return s.record(ctx, KeyFor(origin, destination), s.now(), rt)
}

// CachedToll is ResolveToll without the routing call: a live cache entry if
// there is one, otherwise the flat-rate fallback on distanceKm.
func (s *Service) CachedToll(ctx context.Context, origin, destination types.Point, distanceKm, fallbackRatePerKm float64) Result {
	if res, ok := s.cached(ctx, KeyFor(origin, destination), s.now()); ok {
		return res
	}
	res := sentinel("no cached toll and no route available")
	res.Amount = CalculateFallbackToll(distanceKm, fallbackRatePerKm)
	return res
}

func (s *Service) cached(ctx context.Context, key Key, now time.Time) (Result, bool) {
	if s.store == nil {
		return Result{}, false
	}
	entry, err := s.store.Get(ctx, key)
	switch {
	case err == nil && entry.ExpiresAt.After(now):
		return Result{
			Amount:          entry.TollAmount,
			Currency:        entry.Currency,
			Source:          entry.Source,
			IsFromCache:     true,
			EncodedPolyline: entry.EncodedPolyline,
			FetchedAt:       entry.FetchedAt,
		}, true
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.log.Warn("toll cache read failed", zap.Error(err),
			zap.String("origin_hash", key.OriginHash), zap.String("destination_hash", key.DestinationHash))
	}
	return Result{}, false
}

// record upserts a fetched toll; a failed write is logged only.
func (s *Service) record(ctx context.Context, key Key, now time.Time, rt RouteToll) Result {
	entry := Entry{
		OriginHash:      key.OriginHash,
		DestinationHash: key.DestinationHash,
		TollAmount:      rt.Amount,
		Currency:        types.CurrencyEUR,
		Source:          SourceGoogleAPI,
		FetchedAt:       now,
		ExpiresAt:       now.Add(s.ttl),
		EncodedPolyline: rt.EncodedPolyline,
	}
	if s.store != nil {
		if err := s.store.Upsert(ctx, entry); err != nil {
			s.log.Warn("toll cache write failed", zap.Error(err))
		}
	}

	return Result{
		Amount:          rt.Amount,
		Currency:        types.CurrencyEUR,
		Source:          SourceGoogleAPI,
		EncodedPolyline: rt.EncodedPolyline,
		DistanceMeters:  rt.DistanceMeters,
		DurationSeconds: rt.DurationSeconds,
		FetchedAt:       now,
	}
}

func sentinel(reason string) Result {
	return Result{
		Amount:         SentinelAmount,
		Currency:       types.CurrencyEUR,
		Source:         SourceEstimate,
		FallbackReason: reason,
	}
}

// CalculateFallbackToll estimates a toll as distance × rate, rounded to cents.
func CalculateFallbackToll(distanceKm, ratePerKm float64) float64 {
	if distanceKm <= 0 || ratePerKm <= 0 {
		return 0
	}
	return types.Round2(distanceKm * ratePerKm)
}

// ParseTollAmount sums the EUR estimated prices of a route (units + nanos/1e9).
func ParseTollAmount(route *maps.Route) float64 {
	if route == nil || route.TollInfo == nil {
		return 0
	}
	var total float64
	for _, p := range route.TollInfo.EstimatedPrice {
		if p.CurrencyCode != types.CurrencyEUR {
			continue
		}
		total += parseUnits(p.Units) + float64(p.Nanos)/1e9
	}
	return types.Round2(total)
}

// parseUnits reads the int64-as-string units field; junk counts as zero.
func parseUnits(units string) float64 {
	n, err := strconv.ParseInt(strings.TrimSpace(units), 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

// CleanupExpired removes cache entries whose ExpiresAt is in the past.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return n, err
	}
	s.log.Info("toll cache cleanup", zap.Int64("deleted", n))
	return n, nil
}

// RunCleanup purges expired entries every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanupExpired(ctx); err != nil {
				s.log.Error("toll cache cleanup failed", zap.Error(err))
			}
		}
	}
}

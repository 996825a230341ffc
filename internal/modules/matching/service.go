// README: Dispatch ranking: nearby drivers scored for flexibility.
package matching

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"ridecost/internal/geo"
	"ridecost/internal/types"
)

var ErrInvalidRadius = errors.New("search radius must be positive")

// PositionIndex is satisfied by *Store.
type PositionIndex interface {
	UpsertPosition(ctx context.Context, driverID types.ID, p types.Point) error
	RemoveDriver(ctx context.Context, driverID types.ID) error
	Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]Nearby, error)
}

type Service struct {
	positions PositionIndex
	limits    Limits
	log       *zap.Logger
}

func NewService(positions PositionIndex, limits Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{positions: positions, limits: limits.withDefaults(), log: logger}
}

func (s *Service) Limits() Limits {
	return s.limits
}

func (s *Service) UpdatePosition(ctx context.Context, driverID types.ID, p types.Point) error {
	return s.positions.UpsertPosition(ctx, driverID, p)
}

// RemoveDriver takes a driver out of the dispatch pool, e.g. at end of shift.
func (s *Service) RemoveDriver(ctx context.Context, driverID types.ID) error {
	return s.positions.RemoveDriver(ctx, driverID)
}

// RankCandidates scores every profiled driver within radiusKm of pickup,
// best score first, shorter distance on ties. Drivers in the index without
// a profile are skipped.
func (s *Service) RankCandidates(ctx context.Context, pickup types.Point, radiusKm float64, profiles []Profile) ([]Candidate, error) {
	if radiusKm <= 0 {
		return nil, ErrInvalidRadius
	}
	nearby, err := s.positions.Nearby(ctx, pickup, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("nearby drivers: %w", err)
	}

	// Index implementations need not sort; the stable score sort below keeps
	// this order on ties.
	geo.SortByDistance(nearby, func(n Nearby) float64 { return n.DistanceKm })

	byID := make(map[types.ID]Profile, len(profiles))
	for _, p := range profiles {
		byID[p.DriverID] = p
	}

	candidates := make([]Candidate, 0, len(nearby))
	for _, n := range nearby {
		p, ok := byID[n.DriverID]
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			DriverID:   n.DriverID,
			DistanceKm: n.DistanceKm,
			Score: CalculateFlexibilityScore(Input{
				LicenseCount:            p.LicenseCount,
				AvailabilityHours:       p.AvailabilityHours,
				DistanceKm:              n.DistanceKm,
				RemainingDrivingHours:   p.RemainingDrivingHours,
				RemainingAmplitudeHours: p.RemainingAmplitudeHours,
			}, s.limits),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Score.Total, a.Score.Total)
	})
	s.log.Debug("ranked dispatch candidates",
		zap.Int("nearby", len(nearby)), zap.Int("ranked", len(candidates)))
	return candidates, nil
}

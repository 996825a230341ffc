package pricing

import (
	"ridecost/internal/modules/zone"
	"ridecost/internal/types"
)

type SegmentPrice struct {
	RouteSegment
	Price      float64 `json:"price"`
	IsTransit  bool    `json:"is_transit"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"final_price"`
}

type TransversalDecomposition struct {
	IsTransversal       bool           `json:"is_transversal"`
	ZoneSequence        []types.ID     `json:"zone_sequence"`
	Segments            []SegmentPrice `json:"segments,omitempty"`
	PriceBeforeDiscount float64        `json:"price_before_discount"`
	TotalDiscount       float64        `json:"total_discount"`
	PriceAfterDiscount  float64        `json:"price_after_discount"`
}

// DecomposeTransversalTrip prices each zone segment on its own when the trip
// touches more than two distinct zones. Unzoned stretches do not count as a
// zone but are still priced at multiplier 1.
func DecomposeTransversalTrip(segments []RouteSegment, pickup, dropoff *zone.Zone, cfg TransversalConfig) TransversalDecomposition {
	var out TransversalDecomposition
	seen := make(map[types.ID]bool)
	add := func(id types.ID) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out.ZoneSequence = append(out.ZoneSequence, id)
	}
	if pickup != nil {
		add(pickup.ID)
	}
	for _, s := range segments {
		add(s.ZoneID)
	}
	if dropoff != nil {
		add(dropoff.ID)
	}

	out.IsTransversal = len(out.ZoneSequence) > 2
	if !out.IsTransversal {
		return out
	}

	transit := make(map[string]bool, len(cfg.TransitZoneCodes))
	for _, code := range cfg.TransitZoneCodes {
		transit[code] = true
	}

	var before, discount float64
	out.Segments = make([]SegmentPrice, 0, len(segments))
	for _, s := range segments {
		sp := SegmentPrice{RouteSegment: s}
		byDistance := s.DistanceKm * cfg.RatePerKm
		byTime := s.DurationMinutes / 60 * cfg.RatePerHour
		sp.Price = types.Round2(max(byDistance, byTime) * s.Multiplier)

		sp.IsTransit = s.ZoneCode != "" && transit[s.ZoneCode] &&
			!isZone(pickup, s.ZoneID) && !isZone(dropoff, s.ZoneID)
		if sp.IsTransit && cfg.TransitDiscountEnabled && cfg.TransitDiscountPercent > 0 {
			sp.Discount = types.Round2(sp.Price * cfg.TransitDiscountPercent / 100)
		}
		sp.FinalPrice = types.Round2(sp.Price - sp.Discount)

		before += sp.Price
		discount += sp.Discount
		out.Segments = append(out.Segments, sp)
	}
	out.PriceBeforeDiscount = types.Round2(before)
	out.TotalDiscount = types.Round2(discount)
	out.PriceAfterDiscount = types.Round2(before - discount)
	return out
}

func isZone(z *zone.Zone, id types.ID) bool {
	return z != nil && z.ID == id
}

package zone

import "ridecost/internal/types"

type SurchargeLine struct {
	ZoneID           types.ID `json:"zone_id"`
	ZoneCode         string   `json:"zone_code"`
	ParkingSurcharge float64  `json:"parking_surcharge"`
	AccessFee        float64  `json:"access_fee"`
	Total            float64  `json:"total"`
	Description      string   `json:"description,omitempty"`
}

// Surcharges holds the friction fees of a trip. Dropoff is nil when the
// trip ends in the pickup zone.
type Surcharges struct {
	Pickup  *SurchargeLine `json:"pickup,omitempty"`
	Dropoff *SurchargeLine `json:"dropoff,omitempty"`
	Total   float64        `json:"total"`
}

// CalculateZoneSurcharges sums parking and access fees per distinct zone.
func CalculateZoneSurcharges(pickup, dropoff *Zone) Surcharges {
	var s Surcharges
	s.Pickup = surchargeFor(pickup)
	if dropoff != nil && (pickup == nil || dropoff.ID != pickup.ID) {
		s.Dropoff = surchargeFor(dropoff)
	}
	var total float64
	if s.Pickup != nil {
		total += s.Pickup.Total
	}
	if s.Dropoff != nil {
		total += s.Dropoff.Total
	}
	s.Total = types.Round2(total)
	return s
}

func surchargeFor(z *Zone) *SurchargeLine {
	if z == nil || (z.FixedParkingSurcharge == nil && z.FixedAccessFee == nil) {
		return nil
	}
	line := &SurchargeLine{ZoneID: z.ID, ZoneCode: z.Code, Description: z.SurchargeDescription}
	if z.FixedParkingSurcharge != nil {
		line.ParkingSurcharge = *z.FixedParkingSurcharge
	}
	if z.FixedAccessFee != nil {
		line.AccessFee = *z.FixedAccessFee
	}
	line.Total = types.Round2(line.ParkingSurcharge + line.AccessFee)
	return line
}

package drift

import (
	"math"
)

// tablerRateDivisor converts the 3.8th power of the 10 m wind speed into a
// transport rate in kg/(m·s), per Tabler's regression for the first 5 m
// above the surface.
const tablerRateDivisor = 233847.0

// transportRate returns the potential blowing-snow transport rate in
// kg/(m·s) for a 10 m wind speed in m/s.
func transportRate(windSpeed float64) float64 {
	return math.Pow(windSpeed, 3.8) / tablerRateDivisor
}

// snowfallLimit returns the upper bound on seasonal transport (kg/m)
// imposed by the snowfall water equivalent accumulated so far. Mass
// balance over the upwind fetch: half the relocated snow water equivalent
// (kg/m² == mm) is in transit at the fence line, attenuated by the ratio
// of fetch to maximum transport distance.
func snowfallLimit(sweMM float64, p Params) float64 {
	if sweMM <= 0 {
		return 0
	}
	attenuation := 1 - math.Pow(0.14, p.FetchDistance/p.MaxTransportDistance)
	return 0.5 * p.RelocationCoeff * sweMM * p.MaxTransportDistance * attenuation
}

// seasonTransport runs the transport accumulation for one season and
// returns the transported mass (kg/m), the seasonal snowfall water
// equivalent (mm), the qualifying transport duration in whole hours, and
// whether the snowfall-limited bound governed the total.
func seasonTransport(s *season, p Params) (qt, swe float64, hours int, limited bool) {
	dt := s.step()
	dtSeconds := dt.Seconds()

	var transportSeconds float64
	for i := range s.records {
		r := &s.records[i]
		if !r.Valid() {
			continue
		}
		if *r.Temperature <= p.SnowTempMax && *r.Snowfall > 0 {
			swe += *r.Snowfall
		}
		if *r.Temperature > p.SnowTempMax || *r.WindSpeed < p.ThresholdWindSpeed {
			continue
		}
		limit := snowfallLimit(swe, p)
		if qt >= limit {
			// No loose snow left upwind to entrain.
			continue
		}
		qt += transportRate(*r.WindSpeed) * dtSeconds
		transportSeconds += dtSeconds
		if qt >= limit {
			qt = limit
			limited = true
		}
	}
	return qt, swe, int(transportSeconds / 3600), limited
}

// Package drift estimates seasonal wind-driven snow transport from archive
// weather series using Tabler's blowing-snow formulation, and derives snow
// fence sizing from the per-season transport totals.
package drift

import (
	"time"
)

// Params holds the tunable constants of the transport model. The defaults
// follow Tabler's published values for dry, loose snow over open terrain.
type Params struct {
	// SeasonStartMonth is the month a snow season begins on the 1st of.
	// A season labelled "2019/2020" runs from this month in 2019 through
	// the day before it in 2020.
	SeasonStartMonth time.Month

	// ThresholdWindSpeed is the 10 m wind speed (m/s) above which loose
	// snow is entrained.
	ThresholdWindSpeed float64

	// SnowTempMax is the air temperature (°C) at or below which
	// precipitation is treated as snow and the surface is treated as
	// transportable.
	SnowTempMax float64

	// RelocationCoeff is the fraction of seasonal snowfall water
	// equivalent that is relocated by wind rather than lost to melt,
	// sublimation in place, or retention by vegetation.
	RelocationCoeff float64

	// FetchDistance is the upwind fetch (m) contributing snow.
	FetchDistance float64

	// MaxTransportDistance is Tabler's maximum transport distance (m).
	MaxTransportDistance float64

	// MinCoverage is the minimum fraction of valid records a season must
	// hold for its estimate to be marked in control.
	MinCoverage float64

	// MinValidDays is the minimum number of days spanned by valid records
	// for a season to be marked in control.
	MinValidDays int

	// MaxFenceHeight caps a single fence row; transport beyond the
	// capacity of one row at this height is assigned additional rows.
	MaxFenceHeight float64
}

// DefaultParams returns the standard model parameters.
func DefaultParams() Params {
	return Params{
		SeasonStartMonth:     time.July,
		ThresholdWindSpeed:   5.0,
		SnowTempMax:          1.0,
		RelocationCoeff:      0.7,
		FetchDistance:        3000,
		MaxTransportDistance: 3000,
		MinCoverage:          0.9,
		MinValidDays:         30,
		MaxFenceHeight:       3.8,
	}
}

// SeasonEstimate is the per-season transport result. Transport is mass
// moved past a unit width of barrier over the season, in kg/m. Control is
// false when the season's input data fell below the quality gate; such
// seasons are reported but excluded from the overall average.
type SeasonEstimate struct {
	Season          string  `json:"season"`
	TransportKgPerM float64 `json:"qt_kg_per_m"`
	Control         bool    `json:"control"`
	TransportHours  int     `json:"transport_hours"`
	SnowfallWE      float64 `json:"snowfall_we_mm"`
	Coverage        float64 `json:"coverage"`
	SnowfallLimited bool    `json:"snowfall_limited"`
}

// FenceSpec is the per-season fence sizing derived from a SeasonEstimate,
// joinable 1:1 on the Season label.
type FenceSpec struct {
	Season             string  `json:"season"`
	RequiredHeightM    float64 `json:"required_height_m"`
	CapacityTonnesPerM float64 `json:"capacity_tonnes_per_m"`
	Rows               int     `json:"rows"`
}

// Result is the complete output of one estimation: a renderable figure,
// the fence sizing table, the per-season transport table, and the mean
// transport over seasons that passed the quality gate. The two tables
// always carry the identical season labels in the identical order.
// OverallAvgKgPerM is NaN when no season is in control.
type Result struct {
	Figure           Figure           `json:"figure"`
	Fences           []FenceSpec      `json:"fence"`
	Seasons          []SeasonEstimate `json:"yearly"`
	OverallAvgKgPerM float64          `json:"overall_avg_kg_per_m"`
}

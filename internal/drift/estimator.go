package drift

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/snofokk/snofokk/internal/types"
)

// Estimator computes seasonal snow-drift transport from a weather series.
// It holds only model parameters, carries no state between calls, and is
// safe for concurrent use.
type Estimator struct {
	params Params
}

// NewEstimator creates an Estimator with the given parameters.
func NewEstimator(p Params) *Estimator {
	return &Estimator{params: p}
}

// Estimate runs the full transport estimation over the series.
//
// A series missing one of the three required fields returns a
// *SchemaError. An empty series, or one in which no record carries any
// observation, returns an empty Result with a NaN overall average.
// ErrInsufficientData is returned only when records exist but none can be
// assigned to a season. Individual seasons that fail the quality gate are
// reported with Control=false and excluded from the overall average, never
// dropped from the tables.
func (e *Estimator) Estimate(series *types.WeatherSeries) (*Result, error) {
	if !series.HasTemperature {
		return nil, &SchemaError{Field: "temperature"}
	}
	if !series.HasWindSpeed {
		return nil, &SchemaError{Field: "wind_speed"}
	}
	if !series.HasSnowfall {
		return nil, &SchemaError{Field: "snowfall"}
	}

	if len(series.Records) == 0 || allNull(series.Records) {
		return &Result{
			Figure:           buildFigure(nil, math.NaN()),
			Fences:           []FenceSpec{},
			Seasons:          []SeasonEstimate{},
			OverallAvgKgPerM: math.NaN(),
		}, nil
	}

	seasons := segmentSeasons(series, e.params.SeasonStartMonth)
	if len(seasons) == 0 {
		return nil, ErrInsufficientData
	}

	estimates := make([]SeasonEstimate, 0, len(seasons))
	fences := make([]FenceSpec, 0, len(seasons))
	var controlled []float64

	for i := range seasons {
		s := &seasons[i]
		qt, swe, hours, limited := seasonTransport(s, e.params)
		cov, days := s.coverage()

		est := SeasonEstimate{
			Season:          s.label,
			TransportKgPerM: qt,
			Control:         cov >= e.params.MinCoverage && days >= e.params.MinValidDays,
			TransportHours:  hours,
			SnowfallWE:      swe,
			Coverage:        cov,
			SnowfallLimited: limited,
		}
		estimates = append(estimates, est)
		fences = append(fences, sizeFence(s.label, qt, e.params))

		if est.Control {
			controlled = append(controlled, qt)
		}
	}

	overall := math.NaN()
	if len(controlled) > 0 {
		overall = stat.Mean(controlled, nil)
	}

	return &Result{
		Figure:           buildFigure(estimates, overall),
		Fences:           fences,
		Seasons:          estimates,
		OverallAvgKgPerM: overall,
	}, nil
}

// allNull reports whether no record in the slice carries any observation.
func allNull(recs []types.WeatherRecord) bool {
	for i := range recs {
		r := &recs[i]
		if r.Temperature != nil || r.WindSpeed != nil || r.Snowfall != nil {
			return false
		}
	}
	return true
}

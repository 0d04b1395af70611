package drift

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/snofokk/snofokk/internal/types"
)

// twoSeasonSeries builds the canonical two-winter fixture: season A
// (2019/2020) with 100 days of qualifying storm hours, season B
// (2020/2021) present in the index but carrying no observations at all.
func twoSeasonSeries() *types.WeatherSeries {
	series := &types.WeatherSeries{
		Latitude:       61.1,
		Longitude:      8.5,
		HasTemperature: true,
		HasWindSpeed:   true,
		HasSnowfall:    true,
	}

	startA := time.Date(2019, time.November, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*100; i++ {
		series.Records = append(series.Records, types.WeatherRecord{
			Timestamp:   startA.Add(time.Duration(i) * time.Hour),
			Temperature: fp(-5),
			WindSpeed:   fp(8),
			Snowfall:    fp(0.5),
		})
	}

	startB := time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*100; i++ {
		series.Records = append(series.Records, types.WeatherRecord{
			Timestamp: startB.Add(time.Duration(i) * time.Hour),
		})
	}
	return series
}

func TestEstimateTwoSeasonScenario(t *testing.T) {
	est := NewEstimator(DefaultParams())
	res, err := est.Estimate(twoSeasonSeries())
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}

	if len(res.Seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(res.Seasons))
	}
	a, b := res.Seasons[0], res.Seasons[1]

	if a.Season != "2019/2020" || b.Season != "2020/2021" {
		t.Errorf("unexpected season labels: %q, %q", a.Season, b.Season)
	}
	if a.TransportKgPerM <= 0 {
		t.Errorf("season A transport must be positive, got %v", a.TransportKgPerM)
	}
	if b.TransportKgPerM != 0 {
		t.Errorf("season B transport must be zero, got %v", b.TransportKgPerM)
	}
	if !a.Control || b.Control {
		t.Errorf("expected Control [true false], got [%v %v]", a.Control, b.Control)
	}
	if res.OverallAvgKgPerM != a.TransportKgPerM {
		t.Errorf("overall average %v must equal season A transport %v (B excluded)",
			res.OverallAvgKgPerM, a.TransportKgPerM)
	}
}

func TestEstimateJoinCompleteness(t *testing.T) {
	est := NewEstimator(DefaultParams())
	res, err := est.Estimate(twoSeasonSeries())
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}

	if len(res.Fences) != len(res.Seasons) {
		t.Fatalf("table lengths differ: %d fences, %d seasons", len(res.Fences), len(res.Seasons))
	}
	for i := range res.Seasons {
		if res.Fences[i].Season != res.Seasons[i].Season {
			t.Errorf("row %d: fence season %q != transport season %q",
				i, res.Fences[i].Season, res.Seasons[i].Season)
		}
	}
}

func TestEstimateIdempotent(t *testing.T) {
	series := twoSeasonSeries()
	est := NewEstimator(DefaultParams())

	first, err := est.Estimate(series)
	if err != nil {
		t.Fatalf("first Estimate() error: %v", err)
	}
	second, err := est.Estimate(series)
	if err != nil {
		t.Fatalf("second Estimate() error: %v", err)
	}

	fj, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	sj, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(fj) != string(sj) {
		t.Errorf("repeated estimation is not byte-identical")
	}
}

func TestEstimateUnitInvariants(t *testing.T) {
	est := NewEstimator(DefaultParams())
	res, err := est.Estimate(twoSeasonSeries())
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}

	for _, s := range res.Seasons {
		if s.TransportKgPerM < 0 {
			t.Errorf("season %s: negative transport %v", s.Season, s.TransportKgPerM)
		}
		tonnes := s.TransportKgPerM / 1000
		if math.Abs(tonnes*1000-s.TransportKgPerM) > 1e-9*math.Max(1, s.TransportKgPerM) {
			t.Errorf("season %s: tonnes/m conversion does not round-trip", s.Season)
		}
	}
}

func TestEstimateMissingFieldIsSchemaError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.WeatherSeries)
		field  string
	}{
		{name: "missing wind speed", mutate: func(s *types.WeatherSeries) { s.HasWindSpeed = false }, field: "wind_speed"},
		{name: "missing temperature", mutate: func(s *types.WeatherSeries) { s.HasTemperature = false }, field: "temperature"},
		{name: "missing snowfall", mutate: func(s *types.WeatherSeries) { s.HasSnowfall = false }, field: "snowfall"},
	}

	est := NewEstimator(DefaultParams())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := twoSeasonSeries()
			tt.mutate(series)

			res, err := est.Estimate(series)
			if res != nil {
				t.Errorf("no tables may be constructed on schema violation")
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected *SchemaError, got %v", err)
			}
			if schemaErr.Field != tt.field {
				t.Errorf("SchemaError field = %q, want %q", schemaErr.Field, tt.field)
			}
		})
	}
}

func TestEstimateEmptySeries(t *testing.T) {
	est := NewEstimator(DefaultParams())
	series := &types.WeatherSeries{
		HasTemperature: true,
		HasWindSpeed:   true,
		HasSnowfall:    true,
	}

	res, err := est.Estimate(series)
	if err != nil {
		t.Fatalf("empty series must not fail: %v", err)
	}
	if len(res.Seasons) != 0 || len(res.Fences) != 0 {
		t.Errorf("empty series must produce empty tables")
	}
	if !math.IsNaN(res.OverallAvgKgPerM) {
		t.Errorf("overall average sentinel must be NaN, got %v", res.OverallAvgKgPerM)
	}
}

func TestEstimateAllNullSeries(t *testing.T) {
	est := NewEstimator(DefaultParams())
	series := &types.WeatherSeries{
		HasTemperature: true,
		HasWindSpeed:   true,
		HasSnowfall:    true,
	}
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		series.Records = append(series.Records, types.WeatherRecord{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
		})
	}

	res, err := est.Estimate(series)
	if err != nil {
		t.Fatalf("all-null series must not fail: %v", err)
	}
	if len(res.Seasons) != 0 {
		t.Errorf("all-null series must produce empty tables")
	}
}

func TestEstimateNoControlledSeasons(t *testing.T) {
	// A single thin season: a handful of valid records, far under the
	// minimum-days gate.
	series := &types.WeatherSeries{
		HasTemperature: true,
		HasWindSpeed:   true,
		HasSnowfall:    true,
	}
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		series.Records = append(series.Records, types.WeatherRecord{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			Temperature: fp(-3),
			WindSpeed:   fp(7),
			Snowfall:    fp(0.2),
		})
	}

	est := NewEstimator(DefaultParams())
	res, err := est.Estimate(series)
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}
	if len(res.Seasons) != 1 {
		t.Fatalf("expected one season, got %d", len(res.Seasons))
	}
	if res.Seasons[0].Control {
		t.Errorf("two days of data must not pass the quality gate")
	}
	if !math.IsNaN(res.OverallAvgKgPerM) {
		t.Errorf("overall average must be NaN with zero controlled seasons, got %v", res.OverallAvgKgPerM)
	}
}

func TestEstimateFigureMatchesTables(t *testing.T) {
	est := NewEstimator(DefaultParams())
	res, err := est.Estimate(twoSeasonSeries())
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}

	if len(res.Figure.Data) == 0 {
		t.Fatalf("figure has no traces")
	}
	bars := res.Figure.Data[0]
	if bars.Type != "bar" {
		t.Errorf("first trace must be the transport bars, got %q", bars.Type)
	}
	if len(bars.X) != len(res.Seasons) {
		t.Fatalf("figure has %d bars for %d seasons", len(bars.X), len(res.Seasons))
	}
	for i, s := range res.Seasons {
		if bars.X[i] != s.Season || bars.Y[i] != s.TransportKgPerM {
			t.Errorf("bar %d (%q, %v) does not match season row (%q, %v)",
				i, bars.X[i], bars.Y[i], s.Season, s.TransportKgPerM)
		}
	}
}

package types

import (
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }

func TestWeatherRecordValid(t *testing.T) {
	tests := []struct {
		name     string
		record   WeatherRecord
		expected bool
	}{
		{
			name:     "all observations present",
			record:   WeatherRecord{Temperature: fp(-4), WindSpeed: fp(8), Snowfall: fp(0.5)},
			expected: true,
		},
		{
			name:     "missing wind speed",
			record:   WeatherRecord{Temperature: fp(-4), Snowfall: fp(0.5)},
			expected: false,
		},
		{
			name:     "no observations",
			record:   WeatherRecord{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWeatherSeriesSpan(t *testing.T) {
	first := time.Date(2019, time.November, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2020, time.March, 31, 23, 0, 0, 0, time.UTC)

	series := &WeatherSeries{Records: []WeatherRecord{
		{Timestamp: first},
		{Timestamp: first.Add(time.Hour)},
		{Timestamp: last},
	}}

	gotFirst, gotLast := series.Span()
	if !gotFirst.Equal(first) || !gotLast.Equal(last) {
		t.Errorf("Span() = (%v, %v), want (%v, %v)", gotFirst, gotLast, first, last)
	}
}

func TestWeatherSeriesSpanEmpty(t *testing.T) {
	series := &WeatherSeries{}
	first, last := series.Span()
	if !first.IsZero() || !last.IsZero() {
		t.Errorf("Span() of empty series = (%v, %v), want zero times", first, last)
	}
}
